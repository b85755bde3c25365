/*
Package eval is the offline evaluation harness for the discovery engine.

It computes Recall@K, mAP@K, and NDCG@K over labeled query→relevant-tool
sets, runs wRRF weight ablations, and carries the BM25 baseline (bleve) that
the TF-IDF-over-BM25 serving decision was calibrated against. Nothing in
this package runs at serve time.
*/
package eval

import "math"

// RecallAtK is the fraction of the relevant set present in the top K.
func RecallAtK(ranked []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	hits := 0
	for _, name := range ranked[:k] {
		if relevant[name] {
			hits++
		}
	}

	return float64(hits) / float64(len(relevant))
}

// AveragePrecisionAtK is the precision-weighted average over relevant hits
// in the top K, normalized by min(|relevant|, K).
func AveragePrecisionAtK(ranked []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	hits := 0
	var sum float64
	for i, name := range ranked[:k] {
		if relevant[name] {
			hits++
			sum += float64(hits) / float64(i+1)
		}
	}

	denominator := len(relevant)
	if k < denominator {
		denominator = k
	}
	if denominator == 0 {
		return 0
	}

	return sum / float64(denominator)
}

// NDCGAtK is the normalized discounted cumulative gain with binary
// relevance over the top K.
func NDCGAtK(ranked []string, relevant map[string]bool, k int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	var dcg float64
	for i, name := range ranked[:k] {
		if relevant[name] {
			dcg += 1.0 / math.Log2(float64(i+2))
		}
	}

	ideal := len(relevant)
	if k < ideal {
		ideal = k
	}
	var idcg float64
	for i := 0; i < ideal; i++ {
		idcg += 1.0 / math.Log2(float64(i+2))
	}

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}
