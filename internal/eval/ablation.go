package eval

import (
	"fmt"
	"strings"

	"github.com/toolscout/tool-scout-mcp/internal/embedding"
)

// AblationCell is one grid point of a wRRF weight sweep.
type AblationCell struct {
	Fusion embedding.FusionConfig `json:"fusion"`
	Report Report                 `json:"report"`
}

// DefaultFusionGrid is the sweep used to calibrate the production weights.
// It brackets the paper-default α ratio (1:1) and the shipped domain-heavy
// ratio, plus K values around the shipped 20.
func DefaultFusionGrid() []embedding.FusionConfig {
	base := embedding.DefaultFusionConfig()

	var grid []embedding.FusionConfig
	for _, alphaDomain := range []float64{1.0, 1.25, 1.5, 2.0} {
		for _, k := range []float64{10, 20, 60} {
			cfg := base
			cfg.AlphaDomain = alphaDomain
			cfg.K = k
			grid = append(grid, cfg)
		}
	}
	return grid
}

// AblateFusion re-runs the labeled suite for every fusion configuration in
// the grid. The builder must return a ranker wired to the given weights
// (typically a fresh engine over the same catalog and embedding index).
func AblateFusion(build func(embedding.FusionConfig) RankFunc, grid []embedding.FusionConfig, queries []LabeledQuery, k int) []AblationCell {
	cells := make([]AblationCell, 0, len(grid))
	for _, fusion := range grid {
		cells = append(cells, AblationCell{
			Fusion: fusion,
			Report: Evaluate(build(fusion), queries, k),
		})
	}
	return cells
}

// BestCell returns the grid point with the highest NDCG, ties broken by mAP.
func BestCell(cells []AblationCell) (AblationCell, bool) {
	if len(cells) == 0 {
		return AblationCell{}, false
	}

	best := cells[0]
	for _, cell := range cells[1:] {
		if cell.Report.NDCG > best.Report.NDCG ||
			(cell.Report.NDCG == best.Report.NDCG && cell.Report.MAP > best.Report.MAP) {
			best = cell
		}
	}
	return best, true
}

// FormatAblation renders the sweep as an aligned table.
func FormatAblation(cells []AblationCell) string {
	var sb strings.Builder

	sb.WriteString("alphaT  alphaD  K     Recall  mAP     NDCG\n")
	for _, cell := range cells {
		fmt.Fprintf(&sb, "%-7.2f %-7.2f %-5.0f %-7.3f %-7.3f %-7.3f\n",
			cell.Fusion.AlphaTool,
			cell.Fusion.AlphaDomain,
			cell.Fusion.K,
			cell.Report.Recall,
			cell.Report.MAP,
			cell.Report.NDCG,
		)
	}

	return sb.String()
}
