package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolscout/tool-scout-mcp/internal/search"
)

// NewSearchCmd creates the 'search' command for one-shot queries.
func NewSearchCmd() *cobra.Command {
	var opts bootstrapOptions
	var (
		mode     string
		category string
		phase    string
		limit    int
		explain  bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot discovery query",
		Long: `Rank the catalog against a natural-language query and print the results.

Modes: hybrid (default), exact, prefix, fuzzy, regex, bigram, semantic,
dense, embedding. Unknown modes run as hybrid.`,
		Example: `  tool-scout-mcp search "verify the current work"
  tool-scout-mcp search "record decision" --category memory --explain
  tool-scout-mcp search "start_verification_cycle" --mode exact --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(opts, query, search.Options{
				Mode:     search.ParseMode(mode),
				Category: category,
				Phase:    phase,
				Limit:    limit,
				Explain:  explain,
			}, asJSON)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default ~/.tool-scout-mcp.json)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file path (overrides config)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Database path (overrides config)")
	cmd.Flags().StringVar(&mode, "mode", "hybrid", "Strategy subset")
	cmd.Flags().StringVar(&category, "category", "", "Restrict results to one category")
	cmd.Flags().StringVar(&phase, "phase", "", "Restrict results to one workflow phase")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (0 = default)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show per-strategy match reasons")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")

	return cmd
}

func runSearch(opts bootstrapOptions, query string, searchOpts search.Options, asJSON bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	engine, err := buildEngine(cfg, opts)
	if err != nil {
		return err
	}

	store := openStorage(cfg, opts)
	defer store.Close()
	attachCollaborators(engine, store, cfg)

	results := engine.Search(query, searchOpts)

	if asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Printf("No tools matched '%s'.\n", query)
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. %-32s %7.1f  %s", i+1, result.Name, result.Score, result.Category)
		if result.Phase != "" {
			fmt.Printf("/%s", result.Phase)
		}
		fmt.Println()
		if searchOpts.Explain {
			for _, reason := range result.MatchReasons {
				fmt.Printf("      %s (+%.1f)\n", reason.String(), reason.Points)
			}
		}
	}
	return nil
}
