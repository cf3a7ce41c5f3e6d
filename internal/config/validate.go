package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyInclude indicates no include patterns were configured
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrEmptyOutputDir indicates a missing output directory
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrEmptySelf indicates a missing receiver name
	ErrEmptySelf = errors.New("empty self name")

	// ErrEmptyRouterAliases indicates no router aliases were configured
	ErrEmptyRouterAliases = errors.New("empty router aliases")

	// ErrEmptyVerbs indicates no routing verbs were configured
	ErrEmptyVerbs = errors.New("empty routing verbs")

	// ErrInvalidHelperPrefix indicates a helper prefix that is not an identifier
	ErrInvalidHelperPrefix = errors.New("invalid helper prefix")
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// validFormats mirrors render.Formats; "yml" is accepted as an alias.
var validFormats = map[string]bool{
	"html": true,
	"json": true,
	"yaml": true,
	"yml":  true,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if err := validateGrammar(&cfg.Grammar); err != nil {
		errs = append(errs, err)
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	if len(cfg.Include) == 0 {
		return fmt.Errorf("%w: at least one include pattern required", ErrEmptyInclude)
	}
	return nil
}

func validateOutput(cfg *OutputConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, fmt.Errorf("%w: output.dir is required", ErrEmptyOutputDir))
	}

	if len(cfg.Formats) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one format required", ErrInvalidFormat))
	}
	for _, format := range cfg.Formats {
		if !validFormats[strings.ToLower(format)] {
			errs = append(errs, fmt.Errorf("%w: %s (valid: html, json, yaml)", ErrInvalidFormat, format))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateGrammar(cfg *GrammarConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Self) == "" {
		errs = append(errs, fmt.Errorf("%w: grammar.self is required", ErrEmptySelf))
	}

	if len(cfg.RouterAliases) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one router alias required", ErrEmptyRouterAliases))
	}

	if len(cfg.Verbs) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one verb required", ErrEmptyVerbs))
	}

	if !identifier.MatchString(cfg.HelperPrefix) {
		errs = append(errs, fmt.Errorf("%w: %q is not an identifier", ErrInvalidHelperPrefix, cfg.HelperPrefix))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every joined sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationError{errs: errs}
}

type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return "validation failed:\n  - " + strings.Join(msgs, "\n  - ")
}

func (e *validationError) Unwrap() []error {
	return e.errs
}
