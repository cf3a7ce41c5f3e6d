// Package docs turns the comments that precede a declaration into rendered
// documentation.
package docs

import (
	"regexp"
	"strings"

	"github.com/mvp-joe/apidocs/internal/lexer"
	"rsc.io/markdown"
)

// Converter renders plain comment text into markup. Implementations must be
// pure and safe for concurrent use.
type Converter interface {
	Convert(text string) string
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(text string) string

func (f ConverterFunc) Convert(text string) string {
	return f(text)
}

// MarkdownConverter renders comment text as CommonMark HTML.
type MarkdownConverter struct {
	parser *markdown.Parser
}

// NewMarkdownConverter creates a converter with tables and task lists enabled.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		parser: &markdown.Parser{
			Table:    true,
			TaskList: true,
		},
	}
}

func (m *MarkdownConverter) Convert(text string) string {
	return markdown.ToHTML(m.parser.Parse(text))
}

var (
	blockContinuation = regexp.MustCompile(`\n *\* `)
	residualStar      = regexp.MustCompile(`\n *\*`)
)

// Clean strips comment markup and joins the comments, oldest first, one per
// line. Block comments lose the leading "* " of their interior lines, line
// comments lose a single leading space per line.
func Clean(comments []lexer.Comment) string {
	var b strings.Builder
	for _, c := range comments {
		t := c.Text
		if c.Style == lexer.CommentBlock {
			t = blockContinuation.ReplaceAllString(t, "\n")
		} else {
			t = strings.TrimPrefix(t, " ")
			t = strings.ReplaceAll(t, "\n ", "\n")
		}
		t = strings.TrimPrefix(t, "*")
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return residualStar.ReplaceAllString(b.String(), "\n")
}

// Normalize cleans the comments and renders them with conv. An empty comment
// list renders the empty string.
func Normalize(conv Converter, comments []lexer.Comment) string {
	return conv.Convert(Clean(comments))
}
