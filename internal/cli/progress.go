package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mvp-joe/apidocs/internal/generator"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements progress reporting with progress bars.
// File callbacks arrive from concurrent workers.
type CLIProgressReporter struct {
	quiet          bool
	out            io.Writer
	mu             sync.Mutex
	fileBar        *progressbar.ProgressBar
	totalFiles     int
	processedFiles int
	failedFiles    int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet: quiet,
		out:   os.Stdout,
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Documenting %s files\n", formatNumber(files))
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalFiles = totalFiles
	c.processedFiles = 0
	c.failedFiles = 0
	if c.quiet || totalFiles == 0 {
		c.fileBar = nil
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.processedFiles++
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnFileFailed(fileName string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.processedFiles++
	c.failedFiles++
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnWritingReports() {
	if c.quiet {
		return
	}
	log.Println("Writing reports...")
}

func (c *CLIProgressReporter) OnComplete(stats *generator.Stats) {
	if c.quiet {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "✓ Documentation complete: %s reports in %.1fs\n",
		formatNumber(stats.ReportsWritten), stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Methods:   %s\n", formatNumber(stats.Methods))
	fmt.Fprintf(c.out, "  Endpoints: %s\n", formatNumber(stats.Endpoints))
	fmt.Fprintf(c.out, "  Helpers:   %s\n", formatNumber(stats.Helpers))
	if stats.UnknownOrigins > 0 {
		fmt.Fprintf(c.out, "  Files with unknown repository: %s\n", formatNumber(stats.UnknownOrigins))
	}
	if stats.RecoveredFiles > 0 {
		fmt.Fprintf(c.out, "  Files with syntax errors: %s\n", formatNumber(stats.RecoveredFiles))
	}
	if len(stats.Errors) > 0 {
		fmt.Fprintf(c.out, "  Failed files: %s\n", formatNumber(len(stats.Errors)))
	}
}

// Counts returns the processed and failed file counts of the current run.
func (c *CLIProgressReporter) Counts() (processed, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processedFiles, c.failedFiles
}
