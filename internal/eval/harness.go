package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/toolscout/tool-scout-mcp/internal/search"
)

// LabeledQuery pairs a natural-language query with the names judged relevant.
type LabeledQuery struct {
	Query    string   `json:"query"`
	Relevant []string `json:"relevant"`
}

// RankFunc produces the top-k ranked names for a query. Both the engine and
// the BM25 baseline are evaluated through this signature.
type RankFunc func(query string, k int) []string

// QueryMetrics holds the per-query scores.
type QueryMetrics struct {
	Query  string  `json:"query"`
	Recall float64 `json:"recall"`
	AP     float64 `json:"ap"`
	NDCG   float64 `json:"ndcg"`
}

// Report aggregates a full evaluation run.
type Report struct {
	K       int            `json:"k"`
	Queries []QueryMetrics `json:"queries"`
	Recall  float64        `json:"recall"`
	MAP     float64        `json:"map"`
	NDCG    float64        `json:"ndcg"`
}

// Evaluate runs every labeled query through the ranker and aggregates
// Recall@K, mAP@K, and NDCG@K.
func Evaluate(rank RankFunc, queries []LabeledQuery, k int) Report {
	report := Report{K: k}

	for _, labeled := range queries {
		relevant := make(map[string]bool, len(labeled.Relevant))
		for _, name := range labeled.Relevant {
			relevant[name] = true
		}

		ranked := rank(labeled.Query, k)

		metrics := QueryMetrics{
			Query:  labeled.Query,
			Recall: RecallAtK(ranked, relevant, k),
			AP:     AveragePrecisionAtK(ranked, relevant, k),
			NDCG:   NDCGAtK(ranked, relevant, k),
		}
		report.Queries = append(report.Queries, metrics)

		report.Recall += metrics.Recall
		report.MAP += metrics.AP
		report.NDCG += metrics.NDCG
	}

	if n := float64(len(report.Queries)); n > 0 {
		report.Recall /= n
		report.MAP /= n
		report.NDCG /= n
	}

	return report
}

// EngineRanker adapts a search engine to the harness. The base options are
// reused per query with the limit overridden to k.
func EngineRanker(engine *search.Engine, base search.Options) RankFunc {
	return func(query string, k int) []string {
		opts := base
		opts.Limit = k

		results := engine.Search(query, opts)
		ranked := make([]string, len(results))
		for i, result := range results {
			ranked[i] = result.Name
		}
		return ranked
	}
}

// LoadLabeledQueries reads a labeled query set from a JSON file.
func LoadLabeledQueries(path string) ([]LabeledQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labeled queries: %w", err)
	}

	var queries []LabeledQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse labeled queries: %w", err)
	}

	for i, labeled := range queries {
		if strings.TrimSpace(labeled.Query) == "" || len(labeled.Relevant) == 0 {
			return nil, fmt.Errorf("labeled query %d: query and relevant set must be non-empty", i)
		}
	}

	return queries, nil
}

// FormatReport renders a report for terminal output.
func FormatReport(label string, report Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (k=%d, %d queries)\n", label, report.K, len(report.Queries))
	fmt.Fprintf(&sb, "  Recall@%d: %.3f\n", report.K, report.Recall)
	fmt.Fprintf(&sb, "  mAP@%d:    %.3f\n", report.K, report.MAP)
	fmt.Fprintf(&sb, "  NDCG@%d:   %.3f\n", report.K, report.NDCG)

	return sb.String()
}
