package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/mvp-joe/apidocs/internal/generator"
	"github.com/mvp-joe/apidocs/internal/search"
	"github.com/spf13/cobra"
)

var (
	limitFlag      int
	searchJSONFlag bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [dir] <query>",
	Short: "Search documented API members",
	Long: `Search extracts the project's API members in memory and runs a full-text
query over their names and documentation. Nothing is written to disk.

Query syntax follows bleve query strings:
  page                 any member mentioning "page"
  +kind:endpoint move  routes mentioning "move"
  name:insert          members named insert

Examples:
  apidocs search "tree"
  apidocs search ../my-module "+kind:helper area" --limit 5
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&limitFlag, "limit", search.DefaultLimit, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSONFlag, "json", false, "Output results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var dir string
	query := args[len(args)-1]
	if len(args) == 2 {
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

	genConfig := cfg.ToGeneratorConfig(rootDir)
	gen, err := generator.New(genConfig, nil)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	defer gen.Close()

	reports, _, err := gen.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	index, err := search.NewIndex(ctx, reports)
	if err != nil {
		return err
	}
	defer index.Close()

	results, err := index.Search(ctx, query, limitFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if searchJSONFlag {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No matches.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range results {
		name := r.Name
		if r.Verb != "" {
			name = r.Verb + " " + name
		}
		fmt.Fprintf(w, "%s\t%s\t%s:%d\t%.3f\n", r.Kind, name, r.File, r.Line, r.Score)
	}
	return w.Flush()
}
