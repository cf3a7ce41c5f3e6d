package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mvp-joe/apidocs/internal/generator"
	"github.com/spf13/cobra"
)

var (
	quietFlag   bool
	watchFlag   bool
	outputFlag  string
	formatFlag  []string
	workersFlag int
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate API documentation for a project",
	Long: `Generate scans the project's JavaScript files and writes one report per
file under <output>/files/ plus an index at <output>/index.<ext>.

Each report lists:
  - methods assigned as self.name = function(...)
  - routes registered with self.app.get|post|all('/route', ...)
  - template helpers declared as aposName: function(...)
together with the documentation comments that precede them.

Examples:
  # Document the current directory into docs/api
  apidocs generate

  # Write HTML and JSON reports for another project
  apidocs generate ../my-module --format html --format json

  # Regenerate whenever a source file changes
  apidocs generate --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	generateCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and regenerate")
	generateCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (overrides output.dir)")
	generateCmd.Flags().StringSliceVarP(&formatFlag, "format", "f", nil, "Output format: html, json, yaml (repeatable)")
	generateCmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent files (0 = one per CPU)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var dir string
	if len(args) > 0 {
		dir = args[0]
	}
	rootDir, err := resolveRoot(dir)
	if err != nil {
		return err
	}

	cfg, err := loadProjectConfig(rootDir)
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return err
	}

	genConfig := cfg.ToGeneratorConfig(rootDir)
	genConfig.Verbose = verbose

	progress := NewCLIProgressReporter(quietFlag)
	gen, err := generator.New(genConfig, progress)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	defer gen.Close()

	if !quietFlag {
		log.Printf("Writing documentation to %s\n", gen.OutputDir())
	}

	if _, err := gen.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if !watchFlag {
		return nil
	}

	if !quietFlag {
		log.Println("Starting watch mode...")
	}

	err = gen.Watch(ctx, generator.DefaultDebounce, func(files []string, stats *generator.Stats, err error) {
		if err != nil {
			log.Printf("Warning: regeneration failed: %v\n", err)
			return
		}
		if verbose {
			for _, file := range files {
				log.Printf("Changed: %s\n", file)
			}
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch mode failed: %w", err)
	}

	if !quietFlag {
		log.Println("Watch mode stopped")
	}
	return nil
}

// commandContext returns a context cancelled on Ctrl+C or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
