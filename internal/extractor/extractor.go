// Package extractor finds documented API members in JavaScript source by
// matching fixed token patterns over the lexer's flat token stream.
package extractor

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/mvp-joe/apidocs/internal/docs"
	"github.com/mvp-joe/apidocs/internal/git"
	"github.com/mvp-joe/apidocs/internal/lexer"
)

// OriginResolver resolves the repository origin of a file. A nil origin
// means unknown.
type OriginResolver interface {
	ResolveOrUnknown(path string) *git.Origin
}

// Extractor builds FileReports. It holds no per-file state and is safe for
// concurrent use when its Converter and OriginResolver are.
type Extractor struct {
	grammar   *compiledGrammar
	converter docs.Converter
	origins   OriginResolver
}

// Options configures an Extractor. Zero values select the defaults:
// DefaultGrammar, markdown rendering, and no origin resolution.
type Options struct {
	Grammar   *Grammar
	Converter docs.Converter
	Origins   OriginResolver
}

// New creates an Extractor.
func New(opts Options) (*Extractor, error) {
	g := DefaultGrammar()
	if opts.Grammar != nil {
		g = *opts.Grammar
	}
	compiled, err := g.compile()
	if err != nil {
		return nil, err
	}

	conv := opts.Converter
	if conv == nil {
		conv = docs.NewMarkdownConverter()
	}

	return &Extractor{
		grammar:   compiled,
		converter: conv,
		origins:   opts.Origins,
	}, nil
}

// Extract reads and extracts one file, then resolves its repository origin.
func (e *Extractor) Extract(path string) (*FileReport, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	report, err := e.ExtractSource(path, source)
	if err != nil {
		return nil, err
	}

	if e.origins != nil {
		report.Repo = e.origins.ResolveOrUnknown(path)
	}
	return report, nil
}

// ExtractSource extracts members from source. path is only used for naming;
// the repository origin is left unknown.
func (e *Extractor) ExtractSource(path string, source []byte) (*FileReport, error) {
	stream, err := lexer.Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %s: %w", path, err)
	}
	defer stream.Close()

	tokens := lexer.Collect(stream)
	members := e.scan(tokens)
	members.sort()

	return &FileReport{
		Name:        filepath.Base(path),
		Path:        path,
		Description: ClassDescription(source),
		Methods:     members.methods,
		Endpoints:   members.endpoints,
		Helpers:     members.helpers,
		HasErrors:   stream.HasErrors(),
	}, nil
}

// members accumulates matches for a single file.
type members struct {
	methods   []Method
	endpoints []Endpoint
	helpers   []Helper
}

// scan walks the tokens once. Method and endpoint patterns are tried only on
// the self token; the helper pattern is tried on every token. Scanning always
// resumes at the next token, never past a match.
func (e *Extractor) scan(tokens []lexer.Token) members {
	acc := members{
		methods:   []Method{},
		endpoints: []Endpoint{},
		helpers:   []Helper{},
	}
	w := window(tokens)
	g := e.grammar

	for i := range tokens {
		if tokens[i].Value == g.Self {
			if m, _, ok := g.matchMethod(w, i, e.converter); ok {
				acc.methods = append(acc.methods, m)
			} else if ep, _, ok := g.matchEndpoint(w, i, e.converter); ok {
				acc.endpoints = append(acc.endpoints, ep)
			}
		}
		if h, _, ok := g.matchHelper(w, i, e.converter); ok {
			acc.helpers = append(acc.helpers, h)
		}
	}
	return acc
}

func (m *members) sort() {
	slices.SortStableFunc(m.methods, func(a, b Method) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortStableFunc(m.endpoints, func(a, b Endpoint) int { return cmp.Compare(a.Route, b.Route) })
	slices.SortStableFunc(m.helpers, func(a, b Helper) int { return cmp.Compare(a.Name, b.Name) })
}

var classTag = regexp.MustCompile(`(?s)@(augments|class) (.*?)\*/`)

// ClassDescription returns the text following the first @augments or @class
// tag up to the end of its block comment, with "* " markup removed.
func ClassDescription(source []byte) string {
	m := classTag.FindSubmatch(source)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(string(m[2]), "* ", ""))
}
