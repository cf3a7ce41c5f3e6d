package extractor

import (
	"fmt"
	"regexp"
	"slices"
)

// Grammar holds the literal words the matchers look for.
type Grammar struct {
	// Self is the receiver name methods and routes hang off.
	Self string
	// RouterAliases are the property names under Self that denote the
	// routing application object.
	RouterAliases []string
	// Verbs are the lower-case routing calls recognised as endpoints.
	Verbs []string
	// HelperPrefix is the lower-case namespace of template-local helpers;
	// helpers are named <prefix><Uppercase>...
	HelperPrefix string
}

// DefaultGrammar recognises `self.x = function`, `self.app.get(...)` and
// `aposFoo: function`.
func DefaultGrammar() Grammar {
	return Grammar{
		Self:          "self",
		RouterAliases: []string{"app", "_app"},
		Verbs:         []string{"get", "post", "all"},
		HelperPrefix:  "apos",
	}
}

// compiledGrammar is a Grammar ready for matching.
type compiledGrammar struct {
	Grammar
	helperName *regexp.Regexp
}

func (g Grammar) compile() (*compiledGrammar, error) {
	if g.Self == "" {
		return nil, fmt.Errorf("grammar: empty self name")
	}
	re, err := regexp.Compile("^" + regexp.QuoteMeta(g.HelperPrefix) + "[A-Z]")
	if err != nil {
		return nil, fmt.Errorf("grammar: invalid helper prefix %q: %w", g.HelperPrefix, err)
	}
	return &compiledGrammar{Grammar: g, helperName: re}, nil
}

func (g *compiledGrammar) isRouter(v string) bool {
	return slices.Contains(g.RouterAliases, v)
}

func (g *compiledGrammar) isVerb(v string) bool {
	return slices.Contains(g.Verbs, v)
}
