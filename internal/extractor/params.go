package extractor

import "github.com/mvp-joe/apidocs/internal/lexer"

// Parameters returns the names inside the parenthesised list starting at
// tokens[i]. If tokens[i] is not "(" the result is empty. Every name token up
// to the first ")" is collected, including names inside default values; an
// unterminated list collects to the end of the tokens.
func Parameters(tokens []lexer.Token, i int) []string {
	params := []string{}
	if i < 0 || i >= len(tokens) || tokens[i].Value != "(" {
		return params
	}
	for j := i; j < len(tokens); j++ {
		if tokens[j].Value == ")" {
			break
		}
		if tokens[j].Kind == lexer.KindName {
			params = append(params, tokens[j].Value)
		}
	}
	return params
}
