package config

import (
	"path/filepath"
	"strings"

	"github.com/mvp-joe/apidocs/internal/extractor"
	"github.com/mvp-joe/apidocs/internal/generator"
)

// ToGeneratorConfig converts a Config to a generator.Config for the project
// at rootDir. The output directory is added to the ignore patterns when it
// lies inside the project so generated files are never rescanned.
func (c *Config) ToGeneratorConfig(rootDir string) *generator.Config {
	ignore := append([]string{}, c.Paths.Ignore...)
	if pattern, ok := outputIgnorePattern(rootDir, c.Output.Dir); ok {
		ignore = append(ignore, pattern)
	}

	verbs := make([]string, len(c.Grammar.Verbs))
	for i, verb := range c.Grammar.Verbs {
		verbs[i] = strings.ToLower(verb)
	}

	return &generator.Config{
		RootDir:         rootDir,
		IncludePatterns: c.Paths.Include,
		IgnorePatterns:  ignore,
		OutputDir:       c.Output.Dir,
		Formats:         c.Output.Formats,
		Workers:         c.Workers,
		Grammar: extractor.Grammar{
			Self:          c.Grammar.Self,
			RouterAliases: c.Grammar.RouterAliases,
			Verbs:         verbs,
			HelperPrefix:  c.Grammar.HelperPrefix,
		},
	}
}

func outputIgnorePattern(rootDir, outputDir string) (string, bool) {
	if !filepath.IsAbs(outputDir) {
		return filepath.ToSlash(filepath.Clean(outputDir)) + "/**", true
	}

	rel, err := filepath.Rel(rootDir, outputDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel) + "/**", true
}
