package extractor

import (
	"strings"

	"github.com/mvp-joe/apidocs/internal/docs"
	"github.com/mvp-joe/apidocs/internal/lexer"
)

// window gives bounds-safe lookahead over a token slice. Positions past
// either end read as the zero Token.
type window []lexer.Token

func (w window) at(k int) lexer.Token {
	if k < 0 || k >= len(w) {
		return lexer.Token{}
	}
	return w[k]
}

func (w window) value(k int) string {
	return w.at(k).Value
}

// docLine is the line of the first preceding comment, or the token's own.
func docLine(tok lexer.Token) int {
	if len(tok.Comments) > 0 {
		return tok.Comments[0].Line
	}
	return tok.Line
}

// Each matcher inspects the window at i and reports the member found and how
// many tokens the pattern spans. The scan loop advances by one regardless.

// matchMethod recognises: self . <name> = function (
func (g *compiledGrammar) matchMethod(w window, i int, conv docs.Converter) (Method, int, bool) {
	if !w.at(i).Is(lexer.KindName, g.Self) ||
		w.value(i+1) != "." ||
		w.at(i+2).Kind != lexer.KindName ||
		w.value(i+3) != "=" ||
		!w.at(i+4).Is(lexer.KindKeyword, "function") {
		return Method{}, 0, false
	}

	return Method{
		Name:       w.value(i + 2),
		Parameters: Parameters(w, i+5),
		Line:       docLine(w[i]),
		Docs:       docs.Normalize(conv, w[i].Comments),
	}, 5, true
}

// matchEndpoint recognises: self . <router> . <verb> ( <route>
// The route is read positionally; it is not checked to be a string literal.
func (g *compiledGrammar) matchEndpoint(w window, i int, conv docs.Converter) (Endpoint, int, bool) {
	if !w.at(i).Is(lexer.KindName, g.Self) ||
		w.value(i+1) != "." ||
		!g.isRouter(w.value(i+2)) ||
		w.value(i+3) != "." ||
		!g.isVerb(w.value(i+4)) {
		return Endpoint{}, 0, false
	}

	return Endpoint{
		Route: w.value(i + 6),
		Verb:  strings.ToUpper(w.value(i + 4)),
		Line:  docLine(w[i]),
		Docs:  docs.Normalize(conv, w[i].Comments),
	}, 7, true
}

// matchHelper recognises: <prefix>Name : function (
// Quoted object keys count as names.
func (g *compiledGrammar) matchHelper(w window, i int, conv docs.Converter) (Helper, int, bool) {
	tok := w.at(i)
	if (tok.Kind != lexer.KindName && tok.Kind != lexer.KindString) ||
		!g.helperName.MatchString(tok.Value) ||
		w.value(i+1) != ":" ||
		!w.at(i+2).Is(lexer.KindKeyword, "function") {
		return Helper{}, 0, false
	}

	return Helper{
		Name:       tok.Value,
		Parameters: Parameters(w, i+3),
		Line:       docLine(tok),
		Docs:       docs.Normalize(conv, tok.Comments),
	}, 3, true
}
