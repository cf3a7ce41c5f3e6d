package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that searches <rootDir>/.apidocs for config.yml.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader for an explicit config file. Unlike the
// directory search, a missing file is an error.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{rootDir: rootDir, configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (APIDOCS_*)
// 2. Config file (.apidocs/config.yml or .apidocs/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".apidocs"))
	}

	v.SetEnvPrefix("APIDOCS")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., APIDOCS_OUTPUT_DIR)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("output.dir")
	v.BindEnv("output.formats")
	v.BindEnv("grammar.self")
	v.BindEnv("grammar.helper_prefix")
	v.BindEnv("workers")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.formats", defaults.Output.Formats)

	v.SetDefault("grammar.self", defaults.Grammar.Self)
	v.SetDefault("grammar.router_aliases", defaults.Grammar.RouterAliases)
	v.SetDefault("grammar.verbs", defaults.Grammar.Verbs)
	v.SetDefault("grammar.helper_prefix", defaults.Grammar.HelperPrefix)

	v.SetDefault("workers", defaults.Workers)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
