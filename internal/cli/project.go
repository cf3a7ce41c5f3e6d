package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/apidocs/internal/config"
	"github.com/spf13/cobra"
)

// resolveRoot returns the absolute project directory: dir when given,
// otherwise the working directory.
func resolveRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return abs, nil
}

// loadProjectConfig loads the project configuration, honouring --config.
func loadProjectConfig(rootDir string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(rootDir, cfgFile).Load()
	} else {
		cfg, err = config.LoadConfigFromDir(rootDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies explicitly set command-line flags onto cfg and
// re-validates it.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Dir = outputFlag
	}
	if flags.Changed("format") {
		cfg.Output.Formats = formatFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// formatNumber formats integer with thousand separators.
// Examples: 1234 -> "1,234", 1234567 -> "1,234,567"
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
