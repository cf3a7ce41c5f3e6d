// Package lexer turns JavaScript source into a flat, forward-only token
// stream. Tokens come from the leaves of a tree-sitter concrete syntax tree,
// so the stream is best-effort on malformed input: tree-sitter recovers from
// syntax errors and the leaves of ERROR nodes are still emitted.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrParse is returned when the source could not be parsed at all.
var ErrParse = errors.New("parse error")

// The TypeScript grammar is a superset of the JavaScript we scan, and it is
// the grammar we already ship.
var language = sitter.NewLanguage(typescript.LanguageTypescript())

// atomicKinds are nodes emitted as a single token instead of descending into
// their children (quotes, escape sequences, template substitutions).
var atomicKinds = map[string]Kind{
	"string":          KindString,
	"template_string": KindTemplate,
	"regex":           KindRegexp,
	"number":          KindNumber,
	"comment":         KindComment,
}

var nameKinds = map[string]bool{
	"identifier":                           true,
	"property_identifier":                  true,
	"shorthand_property_identifier":        true,
	"shorthand_property_identifier_pattern": true,
	"private_property_identifier":          true,
	"statement_identifier":                 true,
	"type_identifier":                      true,
}

const punctuation = "()[]{},;:."

type frame struct {
	node *sitter.Node
	next uint
}

// Stream is a lazy, single-pass token sequence. It is not safe for
// concurrent use and cannot be restarted.
type Stream struct {
	tree    *sitter.Tree
	source  []byte
	stack   []frame
	pending []Comment
	done    bool
	errors  bool
}

// Tokenize parses source and returns a stream positioned at the first token.
// The caller must Close the stream.
func Tokenize(source []byte) (*Stream, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, ErrParse
	}

	root := tree.RootNode()
	return &Stream{
		tree:   tree,
		source: source,
		stack:  []frame{{node: root}},
		errors: root.HasError(),
	}, nil
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (s *Stream) HasErrors() bool {
	return s.errors
}

// Close releases the underlying syntax tree.
func (s *Stream) Close() {
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
	s.stack = nil
}

// Next returns the next non-comment token. Once the input is exhausted it
// returns an EOF token carrying any trailing comments, and a bare EOF token
// on every call after that.
func (s *Stream) Next() Token {
	if s.done {
		return Token{Kind: KindEOF}
	}

	for {
		leaf := s.nextLeaf()
		if leaf == nil {
			s.done = true
			tok := Token{Kind: KindEOF, Comments: s.pending}
			s.pending = nil
			return tok
		}

		tok, comment, isComment := s.classify(leaf)
		if isComment {
			s.pending = append(s.pending, comment)
			continue
		}

		tok.Comments = s.pending
		s.pending = nil
		return tok
	}
}

// nextLeaf advances the depth-first walk to the next emitted leaf.
func (s *Stream) nextLeaf() *sitter.Node {
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]
		node := top.node

		if top.next == 0 && (node.ChildCount() == 0 || isAtomic(node)) {
			s.stack = s.stack[:len(s.stack)-1]
			// Missing nodes and automatic semicolons have no source text.
			if node.IsMissing() || node.StartByte() == node.EndByte() {
				continue
			}
			return node
		}

		if top.next >= node.ChildCount() {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}

		child := node.Child(top.next)
		top.next++
		if child != nil {
			s.stack = append(s.stack, frame{node: child})
		}
	}
	return nil
}

func isAtomic(node *sitter.Node) bool {
	_, ok := atomicKinds[node.Kind()]
	return ok
}

func (s *Stream) classify(node *sitter.Node) (Token, Comment, bool) {
	text := string(s.source[node.StartByte():node.EndByte()])
	line := int(node.StartPosition().Row) + 1
	kind := node.Kind()

	if atomic, ok := atomicKinds[kind]; ok {
		switch atomic {
		case KindComment:
			return Token{}, parseComment(text, line), true
		case KindString, KindTemplate:
			return Token{Kind: atomic, Value: unquote(text), Line: line}, Comment{}, false
		default:
			return Token{Kind: atomic, Value: text, Line: line}, Comment{}, false
		}
	}

	tok := Token{Value: text, Line: line}
	switch {
	case nameKinds[kind]:
		tok.Kind = KindName
	case node.IsNamed():
		tok.Kind = KindAtom
	case isWord(text):
		tok.Kind = KindKeyword
	case len(text) == 1 && strings.Contains(punctuation, text):
		tok.Kind = KindPunctuation
	default:
		tok.Kind = KindOperator
	}
	return tok, Comment{}, false
}

func parseComment(text string, line int) Comment {
	if strings.HasPrefix(text, "/*") {
		body := strings.TrimPrefix(text, "/*")
		body = strings.TrimSuffix(body, "*/")
		return Comment{Style: CommentBlock, Text: body, Line: line}
	}
	return Comment{Style: CommentLine, Text: strings.TrimPrefix(text, "//"), Line: line}
}

// unquote strips the surrounding quote characters of a string or template
// literal. Escape sequences are left as written.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	return text[1 : len(text)-1]
}

func isWord(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// Collect drains the stream and returns every token before EOF.
func Collect(s *Stream) []Token {
	var tokens []Token
	for {
		tok := s.Next()
		if tok.Kind == KindEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
