package trace

// BoostCounts returns, for each candidate outside the top-N head of the
// ranking, the number of distinct top-ranked tools holding an edge to it.
// Each count is worth one fixed bonus; multiple distinct source→target edges
// stack additively.
//
// Candidates already inside the head receive no boost: the booster lifts
// borderline candidates, it never reinforces (or reorders) the confident top
// of the list.
func BoostCounts(ranked []string, edges map[string][]string, topN int) map[string]int {
	if len(edges) == 0 || len(ranked) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = DefaultConfig().TopN
	}

	head := make(map[string]bool, topN)
	candidates := make(map[string]bool, len(ranked))
	for i, name := range ranked {
		candidates[name] = true
		if i < topN {
			head[name] = true
		}
	}

	counts := make(map[string]int)
	for source := range head {
		for _, target := range edges[source] {
			if head[target] || !candidates[target] {
				continue
			}
			counts[target]++
		}
	}

	if len(counts) == 0 {
		return nil
	}
	return counts
}
