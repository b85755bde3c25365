package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolscout/tool-scout-mcp/internal/embedding"
	"github.com/toolscout/tool-scout-mcp/internal/eval"
	"github.com/toolscout/tool-scout-mcp/internal/search"
)

// NewEvalCmd creates the 'eval' command for the offline evaluation harness.
func NewEvalCmd() *cobra.Command {
	var opts bootstrapOptions
	var (
		k      int
		ablate bool
		bm25   bool
	)

	cmd := &cobra.Command{
		Use:   "eval <labeled-queries.json>",
		Short: "Run the offline evaluation harness",
		Long: `Evaluate ranking quality against a labeled query set.

The file is a JSON array of {"query": ..., "relevant": [names...]} pairs.
Reports Recall@K, mAP@K, and NDCG@K; --ablate sweeps the rank-fusion weight
grid and --bm25 adds a BM25 baseline over the same catalog.`,
		Example: `  tool-scout-mcp eval queries.json
  tool-scout-mcp eval queries.json --k 10 --ablate --bm25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], k, ablate, bm25)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default ~/.tool-scout-mcp.json)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file path (overrides config)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Database path (overrides config)")
	cmd.Flags().IntVar(&k, "k", 5, "Ranking cutoff K")
	cmd.Flags().BoolVar(&ablate, "ablate", false, "Sweep the rank-fusion weight grid")
	cmd.Flags().BoolVar(&bm25, "bm25", false, "Include a BM25 baseline")

	return cmd
}

func runEval(opts bootstrapOptions, queriesPath string, k int, ablate, bm25 bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	queries, err := eval.LoadLabeledQueries(queriesPath)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, opts)
	if err != nil {
		return err
	}

	store := openStorage(cfg, opts)
	defer store.Close()
	attachCollaborators(engine, store, cfg)

	report := eval.Evaluate(eval.EngineRanker(engine, search.Options{}), queries, k)
	fmt.Print(eval.FormatReport("engine (hybrid)", report))

	if bm25 {
		rank, closeIndex, err := eval.BM25Ranker(engine.Registry())
		if err != nil {
			return err
		}
		baseline := eval.Evaluate(rank, queries, k)
		fmt.Println()
		fmt.Print(eval.FormatReport("bm25 baseline", baseline))
		if err := closeIndex(); err != nil {
			return fmt.Errorf("failed to close bm25 index: %w", err)
		}
	}

	if ablate {
		reg := engine.Registry()
		searchCfg := cfg.Search

		build := func(fusion embedding.FusionConfig) eval.RankFunc {
			cellCfg := searchCfg
			cellCfg.Fusion = fusion
			cellEngine := search.NewEngine(reg, cellCfg)
			return eval.EngineRanker(cellEngine, search.Options{})
		}

		cells := eval.AblateFusion(build, eval.DefaultFusionGrid(), queries, k)
		fmt.Println()
		fmt.Print(eval.FormatAblation(cells))

		if best, ok := eval.BestCell(cells); ok {
			fmt.Printf("\nBest cell: alphaD=%.2f K=%.0f (NDCG %.3f)\n",
				best.Fusion.AlphaDomain, best.Fusion.K, best.Report.NDCG)
		}
	}

	return nil
}
