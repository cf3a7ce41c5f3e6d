// Package generator runs documentation generation over a project tree:
// discovery, concurrent per-file extraction, and report output.
package generator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/apidocs/internal/extractor"
	"github.com/mvp-joe/apidocs/internal/git"
	"github.com/mvp-joe/apidocs/internal/render"
	"golang.org/x/sync/errgroup"
)

// Generator produces reports for every discovered file. A Generator may be
// run repeatedly; runs share nothing but the repository origin cache.
type Generator struct {
	config    *Config
	outputDir string
	discovery *FileDiscovery
	extractor *extractor.Extractor
	resolver  *git.Resolver
	renderers []render.Renderer
	progress  ProgressReporter
}

// fileResult is the outcome of extracting one discovered file.
type fileResult struct {
	path   string
	rel    string
	report *extractor.FileReport
	err    error
}

// New creates a Generator that reads repository metadata from disk.
func New(config *Config, progress ProgressReporter) (*Generator, error) {
	return NewWithOperations(config, git.NewOperations(), progress)
}

// NewWithOperations creates a Generator with custom git operations.
func NewWithOperations(config *Config, ops git.Operations, progress ProgressReporter) (*Generator, error) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	rootDir, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}

	outputDir := config.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(rootDir, outputDir)
	}

	discovery, err := NewFileDiscovery(rootDir, config.IncludePatterns, config.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to compile path patterns: %w", err)
	}

	resolver, err := git.NewResolver(ops)
	if err != nil {
		return nil, err
	}

	grammar := config.Grammar
	ext, err := extractor.New(extractor.Options{
		Grammar: &grammar,
		Origins: resolver,
	})
	if err != nil {
		resolver.Close()
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	var renderers []render.Renderer
	for _, format := range config.Formats {
		r, err := render.New(format)
		if err != nil {
			resolver.Close()
			return nil, err
		}
		renderers = append(renderers, r)
	}

	cfg := *config
	cfg.RootDir = rootDir

	return &Generator{
		config:    &cfg,
		outputDir: outputDir,
		discovery: discovery,
		extractor: ext,
		resolver:  resolver,
		renderers: renderers,
		progress:  progress,
	}, nil
}

// Close releases the origin cache.
func (g *Generator) Close() {
	g.resolver.Close()
}

// OutputDir returns the absolute output directory.
func (g *Generator) OutputDir() string {
	return g.outputDir
}

// Extract discovers and extracts every file without writing output.
// Reports are returned in discovery order; failed files are returned
// separately.
func (g *Generator) Extract(ctx context.Context) ([]*extractor.FileReport, []FileError, error) {
	results, err := g.extractDiscovered(ctx)
	if err != nil {
		return nil, nil, err
	}

	var reports []*extractor.FileReport
	var failed []FileError
	for _, res := range results {
		if res.err != nil {
			failed = append(failed, FileError{Path: res.rel, Err: res.err})
			continue
		}
		reports = append(reports, res.report)
	}
	return reports, failed, nil
}

// Run discovers, extracts, and writes one report per file per format plus an
// index per format. A file that fails to extract is recorded in Stats.Errors
// and skipped; output and discovery failures abort the run.
func (g *Generator) Run(ctx context.Context) (*Stats, error) {
	startTime := time.Now()
	stats := &Stats{}

	results, err := g.extractDiscovered(ctx)
	if err != nil {
		return nil, err
	}
	stats.FilesDiscovered = len(results)

	g.progress.OnWritingReports()

	entries := make([][]render.IndexEntry, len(g.renderers))
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if res.err != nil {
			stats.Errors = append(stats.Errors, FileError{Path: res.rel, Err: res.err})
			continue
		}

		report := res.report
		stats.Methods += len(report.Methods)
		stats.Endpoints += len(report.Endpoints)
		stats.Helpers += len(report.Helpers)
		if report.Repo == nil {
			stats.UnknownOrigins++
		}
		if report.HasErrors {
			stats.RecoveredFiles++
		}

		for i, r := range g.renderers {
			reportPath := render.ReportPath(res.rel, r.Ext())
			target := filepath.Join(g.outputDir, filepath.FromSlash(reportPath))
			if err := writeFile(target, func(w io.Writer) error {
				return r.RenderReport(w, report, reportPath)
			}); err != nil {
				return nil, fmt.Errorf("failed to write report %s: %w", reportPath, err)
			}

			entries[i] = append(entries[i], render.IndexEntry{
				Report:  reportPath,
				Source:  res.rel,
				Members: report.MemberCount(),
			})
			if i == 0 {
				stats.Reports = append(stats.Reports, reportPath)
			}
		}
		stats.ReportsWritten++
	}

	runID := uuid.NewString()
	generatedAt := time.Now()
	for i, r := range g.renderers {
		index := &render.Index{RunID: runID, GeneratedAt: generatedAt, Files: entries[i]}
		if index.Files == nil {
			index.Files = []render.IndexEntry{}
		}
		target := filepath.Join(g.outputDir, "index"+r.Ext())
		if err := writeFile(target, func(w io.Writer) error {
			return r.RenderIndex(w, index)
		}); err != nil {
			return nil, fmt.Errorf("failed to write index %s: %w", target, err)
		}
	}

	stats.Duration = time.Since(startTime)
	g.progress.OnComplete(stats)
	return stats, nil
}

// extractDiscovered runs discovery and extracts every file concurrently.
// Results are indexed by discovery order, not completion order. Origins are
// resolved afresh on every call so watch mode sees repository changes.
func (g *Generator) extractDiscovered(ctx context.Context) ([]fileResult, error) {
	g.resolver.Reset()

	g.progress.OnDiscoveryStart()
	files, err := g.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	g.progress.OnDiscoveryComplete(len(files))

	g.progress.OnFileProcessingStart(len(files))

	workers := g.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]fileResult, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, path := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(g.config.RootDir, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			report, err := g.extractor.Extract(path)
			results[i] = fileResult{path: path, rel: rel, report: report, err: err}

			if err != nil {
				log.Printf("Warning: failed to document %s: %v\n", rel, err)
				g.progress.OnFileFailed(rel, err)
				return nil
			}

			report.Path = rel
			if g.config.Verbose {
				log.Printf("%s: %d methods, %d endpoints, %d locals\n",
					rel, len(report.Methods), len(report.Endpoints), len(report.Helpers))
			}
			g.progress.OnFileProcessed(rel)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeFile creates parent directories on demand and writes through fn.
func writeFile(path string, fn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
