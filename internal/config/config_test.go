package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/apidocs/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration matching the fixed grammar
// - Load() uses defaults when no config file exists
// - Load() loads from .apidocs/config.yml and .apidocs/config.yaml
// - Load() merges a partial config file with defaults
// - Environment variables override config file values and defaults
// - Load() returns error for malformed YAML and invalid values
// - NewFileLoader() reads an explicit file and fails when it is missing
// - Validate() rejects each invalid field with its sentinel error
// - Validate() reports multiple errors at once
// - ToGeneratorConfig() ignores the output directory and lower-cases verbs
// - Default discovery documents lib/ and skips only lib/tasks/

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ".apidocs")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, []string{"**/*.js"}, cfg.Paths.Include)
	assert.Contains(t, cfg.Paths.Ignore, "**/node_modules/**")
	assert.Equal(t, "docs/api", cfg.Output.Dir)
	assert.Equal(t, []string{"html"}, cfg.Output.Formats)
	assert.Equal(t, "self", cfg.Grammar.Self)
	assert.Equal(t, []string{"app", "_app"}, cfg.Grammar.RouterAliases)
	assert.Equal(t, []string{"get", "post", "all"}, cfg.Grammar.Verbs)
	assert.Equal(t, "apos", cfg.Grammar.HelperPrefix)
	assert.Zero(t, cfg.Workers)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
paths:
  include:
    - "modules/**/*.js"
  ignore:
    - "**/vendor/**"
output:
  dir: site/api
  formats: [html, json]
grammar:
  self: me
  router_aliases: [router]
  verbs: [get, put]
  helper_prefix: my
workers: 3
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"modules/**/*.js"}, cfg.Paths.Include)
	assert.Equal(t, []string{"**/vendor/**"}, cfg.Paths.Ignore)
	assert.Equal(t, "site/api", cfg.Output.Dir)
	assert.Equal(t, []string{"html", "json"}, cfg.Output.Formats)
	assert.Equal(t, "me", cfg.Grammar.Self)
	assert.Equal(t, []string{"router"}, cfg.Grammar.RouterAliases)
	assert.Equal(t, []string{"get", "put"}, cfg.Grammar.Verbs)
	assert.Equal(t, "my", cfg.Grammar.HelperPrefix)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", "output:\n  dir: out\n")

	cfg, err := LoadConfigFromDir(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Dir)
}

func TestLoadConfig_MergesWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "workers: 2\n")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, Default().Paths, cfg.Paths)
	assert.Equal(t, Default().Grammar, cfg.Grammar)
	assert.Equal(t, "docs/api", cfg.Output.Dir)
}

func TestLoadConfig_EnvironmentOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "output:\n  dir: from-file\nworkers: 2\n")

	t.Setenv("APIDOCS_OUTPUT_DIR", "from-env")
	t.Setenv("APIDOCS_WORKERS", "8")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfig_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("APIDOCS_GRAMMAR_HELPER_PREFIX", "cms")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, "cms", cfg.Grammar.HelperPrefix)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "output: [unclosed\n")

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", "output:\n  formats: [pdf]\n")

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFileLoader(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 5\n"), 0644))

	cfg, err := NewFileLoader(tempDir, path).Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)

	_, err = NewFileLoader(tempDir, filepath.Join(tempDir, "missing.yaml")).Load()
	assert.Error(t, err)
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty include", func(c *Config) { c.Paths.Include = nil }, ErrEmptyInclude},
		{"empty output dir", func(c *Config) { c.Output.Dir = " " }, ErrEmptyOutputDir},
		{"no formats", func(c *Config) { c.Output.Formats = nil }, ErrInvalidFormat},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"pdf"} }, ErrInvalidFormat},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidWorkers},
		{"empty self", func(c *Config) { c.Grammar.Self = "" }, ErrEmptySelf},
		{"no router aliases", func(c *Config) { c.Grammar.RouterAliases = nil }, ErrEmptyRouterAliases},
		{"no verbs", func(c *Config) { c.Grammar.Verbs = []string{} }, ErrEmptyVerbs},
		{"empty helper prefix", func(c *Config) { c.Grammar.HelperPrefix = "" }, ErrInvalidHelperPrefix},
		{"non-identifier helper prefix", func(c *Config) { c.Grammar.HelperPrefix = "a-b" }, ErrInvalidHelperPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_AcceptsYmlAlias(t *testing.T) {
	cfg := Default()
	cfg.Output.Formats = []string{"HTML", "yml"}
	assert.NoError(t, Validate(cfg))
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Workers = -2
	cfg.Grammar.Verbs = nil
	cfg.Output.Dir = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkers)
	assert.ErrorIs(t, err, ErrEmptyVerbs)
	assert.ErrorIs(t, err, ErrEmptyOutputDir)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestToGeneratorConfig(t *testing.T) {
	cfg := Default()
	cfg.Grammar.Verbs = []string{"GET", "Post"}
	cfg.Workers = 4

	gc := cfg.ToGeneratorConfig("/project")

	assert.Equal(t, "/project", gc.RootDir)
	assert.Equal(t, []string{"**/*.js"}, gc.IncludePatterns)
	assert.Contains(t, gc.IgnorePatterns, "docs/api/**")
	assert.Contains(t, gc.IgnorePatterns, "**/node_modules/**")
	assert.Equal(t, []string{"get", "post"}, gc.Grammar.Verbs)
	assert.Equal(t, "self", gc.Grammar.Self)
	assert.Equal(t, 4, gc.Workers)
	assert.Equal(t, "docs/api", gc.OutputDir)

	assert.NotContains(t, Default().Paths.Ignore, "docs/api/**", "defaults must not be mutated")
}

func TestToGeneratorConfig_AbsoluteOutput(t *testing.T) {
	cfg := Default()

	cfg.Output.Dir = "/project/build/docs"
	assert.Contains(t, cfg.ToGeneratorConfig("/project").IgnorePatterns, "build/docs/**")

	cfg.Output.Dir = "/elsewhere/docs"
	assert.Equal(t, Default().Paths.Ignore, cfg.ToGeneratorConfig("/project").IgnorePatterns)
}

func TestDefault_DiscoversLibButNotLibTasks(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"index.js",
		"lib/pages.js",
		"lib/tasks/build.js",
		"modules/tasks/x.js",
		"docs/api/files/stale.js",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("var x;\n"), 0644))
	}

	gc := Default().ToGeneratorConfig(root)
	fd, err := generator.NewFileDiscovery(root, gc.IncludePatterns, gc.IgnorePatterns)
	require.NoError(t, err)

	files, err := fd.DiscoverFiles()
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"index.js", "lib/pages.js", "modules/tasks/x.js"}, rels)
}
