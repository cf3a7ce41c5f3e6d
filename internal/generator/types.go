package generator

import (
	"fmt"
	"time"

	"github.com/mvp-joe/apidocs/internal/extractor"
)

// Config configures a generation run.
type Config struct {
	// RootDir is the project root that source paths are relative to.
	RootDir string
	// IncludePatterns and IgnorePatterns are slash-separated globs relative
	// to RootDir.
	IncludePatterns []string
	IgnorePatterns  []string
	// OutputDir receives files/<...> reports and the index. Relative paths
	// are resolved against RootDir.
	OutputDir string
	// Formats are renderer names; see render.Formats.
	Formats []string
	// Workers bounds concurrent extraction. Zero means runtime.NumCPU().
	Workers int
	// Grammar selects the matched patterns.
	Grammar extractor.Grammar
	// Verbose logs every extracted report.
	Verbose bool
}

// FileError records a file that could not be documented.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Stats summarises a generation run.
type Stats struct {
	FilesDiscovered int
	ReportsWritten  int
	Methods         int
	Endpoints       int
	Helpers         int
	UnknownOrigins  int
	RecoveredFiles  int // files the tokenizer had to recover syntax errors in
	Errors          []FileError
	Reports         []string // report paths relative to OutputDir, discovery order, first format
	Duration        time.Duration
}
