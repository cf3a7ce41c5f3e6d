package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/apidocs/internal/docs"
	"github.com/mvp-joe/apidocs/internal/git"
	"github.com/mvp-joe/apidocs/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the extractor:
// - Source without any pattern yields empty member lists
// - Method definitions: name, parameters in order, documentation, line
// - Route registrations for each verb and router alias
// - Template-local helpers, including quoted keys
// - Members are sorted by name/route
// - Class description from @class/@augments blocks
// - Idempotence: two runs produce identical reports
// - Truncated patterns at end of input do not panic
// - Unknown origin when no repository encloses the file
// - Full fixture file extraction

// plainText renders docs as their cleaned text so assertions stay readable.
var plainText = docs.ConverterFunc(func(text string) string { return text })

func newExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	if opts.Converter == nil {
		opts.Converter = plainText
	}
	e, err := New(opts)
	require.NoError(t, err)
	return e
}

func extract(t *testing.T, src string) *FileReport {
	t.Helper()
	report, err := newExtractor(t, Options{}).ExtractSource("lib/module.js", []byte(src))
	require.NoError(t, err)
	return report
}

func TestExtract_NoPatterns(t *testing.T) {
	t.Parallel()

	report := extract(t, "var a = 1;\nfunction f(x) { return x * 2; }\nself.count = 3;\n")

	assert.Equal(t, "module.js", report.Name)
	assert.Empty(t, report.Methods)
	assert.Empty(t, report.Endpoints)
	assert.Empty(t, report.Helpers)
	assert.Empty(t, report.Description)
	assert.Nil(t, report.Repo)
}

func TestExtract_Method(t *testing.T) {
	t.Parallel()

	report := extract(t, "self.update = function(id, data) {\n  // noop\n};")

	require.Len(t, report.Methods, 1)
	assert.Equal(t, Method{Name: "update", Parameters: []string{"id", "data"}, Line: 1, Docs: ""}, report.Methods[0])
}

func TestExtract_MethodWithBlockComment(t *testing.T) {
	t.Parallel()

	src := "var x;\n/**\n * Save a thing.\n */\nself.save = function(req, thing, callback) {\n};"
	report := extract(t, src)

	require.Len(t, report.Methods, 1)
	m := report.Methods[0]
	assert.Equal(t, "save", m.Name)
	assert.Equal(t, []string{"req", "thing", "callback"}, m.Parameters)
	assert.Equal(t, 2, m.Line)
	assert.Contains(t, m.Docs, "Save a thing.")
	assert.NotEmpty(t, m.Docs)
}

func TestExtract_MethodDefaultValueNamesIncluded(t *testing.T) {
	t.Parallel()

	report := extract(t, "self.f = function(a, b = other) {};")

	require.Len(t, report.Methods, 1)
	assert.Equal(t, []string{"a", "b", "other"}, report.Methods[0].Parameters)
}

func TestExtract_Endpoints(t *testing.T) {
	t.Parallel()

	src := `
self.app.get('/path', function(req, res) {});
// Create things.
self._app.post("/things", function(req, res) {});
self.app.all('/any', handler);
self.app.put('/ignored', handler);
self.router.get('/ignored-too', handler);
`
	report := extract(t, src)

	require.Len(t, report.Endpoints, 3)
	assert.Equal(t, Endpoint{Route: "/any", Verb: "ALL", Line: 5, Docs: ""}, report.Endpoints[0])
	assert.Equal(t, Endpoint{Route: "/path", Verb: "GET", Line: 2, Docs: ""}, report.Endpoints[1])
	assert.Equal(t, Endpoint{Route: "/things", Verb: "POST", Line: 3, Docs: "Create things.\n"}, report.Endpoints[2])
}

func TestExtract_Helpers(t *testing.T) {
	t.Parallel()

	src := `locals({
  // Show an area.
  aposArea: function(page, name, options) {},
  'aposQuoted': function(x) {},
  apostrophe: function() {},
  aposlower: function() {},
  other: function() {}
});`
	report := extract(t, src)

	require.Len(t, report.Helpers, 2)
	assert.Equal(t, "aposArea", report.Helpers[0].Name)
	assert.Equal(t, []string{"page", "name", "options"}, report.Helpers[0].Parameters)
	assert.Equal(t, 2, report.Helpers[0].Line)
	assert.Equal(t, "Show an area.\n", report.Helpers[0].Docs)
	assert.Equal(t, "aposQuoted", report.Helpers[1].Name)
	assert.Equal(t, []string{"x"}, report.Helpers[1].Parameters)
}

func TestExtract_SortOrder(t *testing.T) {
	t.Parallel()

	src := `
self.zeta = function() {};
self.alpha = function() {};
self.mid = function() {};
self.app.get('/z', h);
self.app.get('/a', h);
x({ aposZ: function() {}, aposA: function() {} });
`
	report := extract(t, src)

	var names []string
	for _, m := range report.Methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
	assert.Equal(t, "/a", report.Endpoints[0].Route)
	assert.Equal(t, "/z", report.Endpoints[1].Route)
	assert.Equal(t, "aposA", report.Helpers[0].Name)
	assert.Equal(t, "aposZ", report.Helpers[1].Name)
}

func TestExtract_TruncatedPatternsAtEnd(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"self", "self.", "self.app.get", "self.x =", "aposFoo:"} {
		report := extract(t, src)
		assert.Equal(t, 0, report.MemberCount(), src)
	}
}

func TestExtract_SelfKindCheck(t *testing.T) {
	t.Parallel()

	// A string whose text is "self" is not the receiver.
	report := extract(t, `x('self'); "self".y = function() {};`)
	assert.Empty(t, report.Methods)
}

func TestExtract_CustomGrammar(t *testing.T) {
	t.Parallel()

	g := Grammar{Self: "that", RouterAliases: []string{"server"}, Verbs: []string{"delete"}, HelperPrefix: "tpl"}
	e := newExtractor(t, Options{Grammar: &g})

	report, err := e.ExtractSource("x.js", []byte(`
that.run = function(a) {};
that.server.delete('/items', h);
self.app.get('/nope', h);
o = { tplHeader: function(t) {}, aposArea: function() {} };
`))
	require.NoError(t, err)
	require.Len(t, report.Methods, 1)
	assert.Equal(t, "run", report.Methods[0].Name)
	require.Len(t, report.Endpoints, 1)
	assert.Equal(t, "DELETE", report.Endpoints[0].Verb)
	require.Len(t, report.Helpers, 1)
	assert.Equal(t, "tplHeader", report.Helpers[0].Name)
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("../../testdata/code/js/pages.js")
	require.NoError(t, err)

	e := newExtractor(t, Options{Converter: docs.NewMarkdownConverter()})
	first, err := e.ExtractSource("pages.js", source)
	require.NoError(t, err)
	second, err := e.ExtractSource("pages.js", source)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_Fixture(t *testing.T) {
	t.Parallel()

	path := "../../testdata/code/js/pages.js"
	e := newExtractor(t, Options{Origins: mustResolver(t, git.NewMockGitOps())})

	report, err := e.Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "pages.js", report.Name)
	assert.Equal(t, "Pages manages the page tree.\n Pages may be nested and reordered.", report.Description)
	assert.Nil(t, report.Repo, "no repository encloses the fixture in the mock")
	assert.False(t, report.HasErrors)

	require.Len(t, report.Methods, 3)
	assert.Equal(t, "getPage", report.Methods[0].Name)
	assert.Equal(t, []string{"req", "slug", "callback"}, report.Methods[0].Parameters)
	assert.Equal(t, 11, report.Methods[0].Line)
	assert.Contains(t, report.Methods[0].Docs, "Fetch a page by slug.")

	assert.Equal(t, "insert", report.Methods[1].Name)
	assert.Equal(t, 19, report.Methods[1].Line)
	assert.Equal(t, "Insert a page below a parent.\nThe parent must exist.\n", report.Methods[1].Docs)

	assert.Equal(t, "remove", report.Methods[2].Name)
	assert.Equal(t, 24, report.Methods[2].Line)
	assert.Empty(t, report.Methods[2].Docs)

	require.Len(t, report.Endpoints, 3)
	assert.Equal(t, "/apos-pages/autocomplete", report.Endpoints[0].Route)
	assert.Equal(t, "ALL", report.Endpoints[0].Verb)
	assert.Equal(t, "/apos-pages/move-page", report.Endpoints[1].Route)
	assert.Equal(t, "POST", report.Endpoints[1].Verb)
	assert.Equal(t, "/apos-pages/search", report.Endpoints[2].Route)
	assert.Equal(t, "GET", report.Endpoints[2].Verb)

	require.Len(t, report.Helpers, 2)
	assert.Equal(t, "aposAreaIsEmpty", report.Helpers[0].Name)
	assert.Equal(t, "aposPageTree", report.Helpers[1].Name)
	assert.Equal(t, []string{"page", "options"}, report.Helpers[1].Parameters)
}

func TestExtract_UnknownOriginForUnversionedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loose.js")
	require.NoError(t, os.WriteFile(path, []byte("var nothing = true;\n"), 0644))

	e := newExtractor(t, Options{Origins: mustResolver(t, git.NewMockGitOps())})
	report, err := e.Extract(path)
	require.NoError(t, err)

	assert.Equal(t, 0, report.MemberCount())
	assert.Nil(t, report.Repo)
}

func TestExtract_ResolvesOrigin(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "lib", "a.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("self.a = function() {};\n"), 0644))

	ops := git.NewMockGitOps().AddRepo(root, "git@github.com:owner/repo.git")
	e := newExtractor(t, Options{Origins: mustResolver(t, ops)})

	report, err := e.Extract(path)
	require.NoError(t, err)
	require.NotNil(t, report.Repo)
	assert.Equal(t, "owner", report.Repo.Owner)
	assert.Equal(t, "lib/a.js", report.Repo.Path)
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := newExtractor(t, Options{}).Extract(filepath.Join(t.TempDir(), "missing.js"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClassDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Base widget.", ClassDescription([]byte("/**\n * @augments Base widget.\n */")))
	assert.Equal(t, "first", ClassDescription([]byte("/* @class first */ /* @class second */")))
	assert.Empty(t, ClassDescription([]byte("// @class without block end")))
}

func TestParameters(t *testing.T) {
	t.Parallel()

	// (a, b = c(d), e
	tokens := []lexer.Token{
		{Kind: lexer.KindPunctuation, Value: "("},
		{Kind: lexer.KindName, Value: "a"},
		{Kind: lexer.KindPunctuation, Value: ","},
		{Kind: lexer.KindName, Value: "b"},
		{Kind: lexer.KindOperator, Value: "="},
		{Kind: lexer.KindName, Value: "c"},
		{Kind: lexer.KindPunctuation, Value: "("},
		{Kind: lexer.KindName, Value: "d"},
		{Kind: lexer.KindPunctuation, Value: ")"},
		{Kind: lexer.KindPunctuation, Value: ","},
		{Kind: lexer.KindName, Value: "e"},
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, Parameters(tokens, 0), "stops at the first close paren")
	assert.Equal(t, []string{}, Parameters(tokens, 1), "not an open paren")
	assert.Equal(t, []string{}, Parameters(tokens, 100), "out of range")
	assert.Equal(t, []string{"d"}, Parameters(tokens, 6))

	unterminated := []lexer.Token{
		{Kind: lexer.KindPunctuation, Value: "("},
		{Kind: lexer.KindName, Value: "x"},
		{Kind: lexer.KindString, Value: "s"},
		{Kind: lexer.KindName, Value: "y"},
	}
	assert.Equal(t, []string{"x", "y"}, Parameters(unterminated, 0))
}

func mustResolver(t *testing.T, ops git.Operations) *git.Resolver {
	t.Helper()
	r, err := git.NewResolver(ops)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}
