/*
Package search implements the tool-discovery ranking engine.

A query is scored against the capability catalog by an ensemble of lexical
strategies (exact, prefix, fuzzy, regex, bigram phrase, synonym-expanded
keyword, TF-IDF cosine), optionally fused with bipartite embedding ranks via
weighted Reciprocal Rank Fusion and boosted by execution-trace co-occurrence
edges. Search is a pure function over immutable snapshots: no I/O happens on
the ranking path.
*/
package search

import "strings"

// Tokenize lower-cases the input and extracts maximal runs of letters and
// underscores. Punctuation and digits act as separators. Queries and
// documents go through the same tokenizer so IDF statistics stay comparable.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	var tokens []string
	var current strings.Builder

	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || r == '_' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// normalizeName canonicalizes a query for whole-name comparison: lower-case,
// trimmed, with interior whitespace collapsed to single underscores so
// "start verification cycle" compares equal to "start_verification_cycle".
func normalizeName(query string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	return strings.Join(fields, "_")
}
