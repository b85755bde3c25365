package registry

import "sort"

// QuickRefResult is the outcome of a quick-reference lookup.
//
// A miss is a reported condition, not an error: Found is false and
// Suggestions carries the nearest registered names so the caller can
// surface a "did you mean" hint.
type QuickRefResult struct {
	Found       bool     `json:"found"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Phase       string   `json:"phase,omitempty"`
	NextAction  string   `json:"nextAction,omitempty"`
	NextTools   []string `json:"nextTools,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// suggestThreshold is the maximum edit distance for a name suggestion.
// Distance 3 catches common typos: transpositions, dropped characters,
// extra characters.
const suggestThreshold = 3

// maxSuggestions bounds the suggestion list on a lookup miss.
const maxSuggestions = 3

// QuickRefFor looks up the quick-reference guidance for a tool name.
// On a miss the result carries up to three nearest-name suggestions.
func (r *Registry) QuickRefFor(name string) QuickRefResult {
	if entry, ok := r.entries[name]; ok {
		return QuickRefResult{
			Found:      true,
			Name:       entry.Name,
			Category:   entry.Category,
			Phase:      entry.Phase,
			NextAction: entry.QuickRef.NextAction,
			NextTools:  append([]string(nil), entry.QuickRef.NextTools...),
		}
	}

	return QuickRefResult{
		Name:        name,
		Suggestions: r.Suggest(name),
	}
}

// Suggest returns up to three registered names within edit distance 3 of
// the unknown input, nearest first. If nothing is close enough, the first
// registered name is returned so the caller always has a starting point.
func (r *Registry) Suggest(unknown string) []string {
	type candidate struct {
		name     string
		distance int
	}

	var candidates []candidate
	for _, name := range r.order {
		distance := levenshtein(unknown, name)
		if distance <= suggestThreshold {
			candidates = append(candidates, candidate{name, distance})
		}
	}

	// Stable sort preserves catalog order for equal distances.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.name)
	}

	if len(suggestions) == 0 && len(r.order) > 0 {
		suggestions = append(suggestions, r.order[0])
	}

	return suggestions
}

// levenshtein computes the edit distance between two strings using a single
// reusable row of the distance matrix (O(min(m,n)) space).
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := previous[i] + 1
			insertion := current[i-1] + 1
			substitution := previous[i-1] + cost

			minimum := deletion
			if insertion < minimum {
				minimum = insertion
			}
			if substitution < minimum {
				minimum = substitution
			}
			current[i] = minimum
		}

		previous = current
	}

	return previous[len(a)]
}
