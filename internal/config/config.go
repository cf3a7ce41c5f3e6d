// Package config loads project configuration for apidocs.
//
// Configuration is read from .apidocs/config.yml (or .yaml) under the
// project root, with environment overrides:
//
//	APIDOCS_OUTPUT_DIR=site/api
//	APIDOCS_WORKERS=4
//
// Priority, highest first: environment, config file, built-in defaults.
// Command-line flags are applied on top by the CLI.
package config

// Config represents the complete apidocs configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Grammar GrammarConfig `yaml:"grammar" mapstructure:"grammar"`
	Workers int           `yaml:"workers" mapstructure:"workers"` // 0 means one per CPU
}

// PathsConfig defines which files to document and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// OutputConfig defines where and how reports are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`         // relative to the project root unless absolute
	Formats []string `yaml:"formats" mapstructure:"formats"` // html, json, yaml
}

// GrammarConfig names the identifiers the extractor matches.
type GrammarConfig struct {
	Self          string   `yaml:"self" mapstructure:"self"`
	RouterAliases []string `yaml:"router_aliases" mapstructure:"router_aliases"`
	Verbs         []string `yaml:"verbs" mapstructure:"verbs"`
	HelperPrefix  string   `yaml:"helper_prefix" mapstructure:"helper_prefix"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{"**/*.js"},
			Ignore: []string{
				"**/node_modules/**",
				"**/public/**",
				"**/test/**",
				"**/lib/tasks/**",
			},
		},
		Output: OutputConfig{
			Dir:     "docs/api",
			Formats: []string{"html"},
		},
		Grammar: GrammarConfig{
			Self:          "self",
			RouterAliases: []string{"app", "_app"},
			Verbs:         []string{"get", "post", "all"},
			HelperPrefix:  "apos",
		},
		Workers: 0,
	}
}
