package search

import (
	"regexp"
	"strings"
)

// queryContext holds everything derived from the raw query once per search,
// shared across all candidate documents.
type queryContext struct {
	raw    string
	name   string
	tokens []string

	// bigrams are adjacent token pairs joined with a space.
	bigrams []string

	// expanded is the synonym-expanded token set (originals included).
	expanded []string

	// regex is the compiled query pattern, or nil when the query is not a
	// valid pattern (regex matching then fails closed).
	regex *regexp.Regexp

	// vec/norm is the TF-IDF query vector for the dense strategy.
	vec  map[string]float64
	norm float64
}

func (e *Engine) newQueryContext(query string) *queryContext {
	q := &queryContext{
		raw:    strings.TrimSpace(query),
		name:   normalizeName(query),
		tokens: Tokenize(query),
	}

	for i := 0; i+1 < len(q.tokens); i++ {
		q.bigrams = append(q.bigrams, q.tokens[i]+" "+q.tokens[i+1])
	}

	seen := make(map[string]bool)
	for _, token := range q.tokens {
		if !seen[token] {
			seen[token] = true
			q.expanded = append(q.expanded, token)
		}
		for _, synonym := range e.cfg.Synonyms[token] {
			if !seen[synonym] {
				seen[synonym] = true
				q.expanded = append(q.expanded, synonym)
			}
		}
	}

	// An unparsable pattern yields zero regex matches, never an error.
	if q.raw != "" {
		if re, err := regexp.Compile("(?i)" + q.raw); err == nil {
			q.regex = re
		}
	}

	q.vec, q.norm = e.tfidf.queryVector(q.tokens)

	return q
}

// scoreExact: the document name equals the normalized query.
func scoreExact(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	if q.name == "" || q.name != doc.nameLower {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonExact, Points: cfg.ExactScore}, true
}

// scorePrefix: the document name starts with the query, or the query starts
// with the document name (short-name case).
func scorePrefix(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	if q.name == "" {
		return MatchReason{}, false
	}
	if !strings.HasPrefix(doc.nameLower, q.name) && !strings.HasPrefix(q.name, doc.nameLower) {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonPrefix, Points: cfg.PrefixBonus}, true
}

// scoreFuzzy: bounded edit distance between query tokens and document
// tokens. Each matched query token contributes a bonus scaled inversely with
// its best distance; the reported distance is the best across tokens.
func scoreFuzzy(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	var points float64
	best := -1

	for _, token := range q.tokens {
		if len(token) < 3 {
			continue
		}
		maxDistance := cfg.FuzzyMaxDistance
		if len(token) < 5 {
			maxDistance = 1
		}

		tokenBest := -1
		for _, docToken := range doc.tokens {
			distance := boundedEditDistance(token, docToken, maxDistance)
			if distance < 0 {
				continue
			}
			if tokenBest < 0 || distance < tokenBest {
				tokenBest = distance
			}
			if tokenBest == 0 {
				break
			}
		}
		if tokenBest < 0 {
			continue
		}

		points += cfg.FuzzyBonus / float64(1+tokenBest)
		if best < 0 || tokenBest < best {
			best = tokenBest
		}
	}

	if best < 0 {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonFuzzy, Points: points, Distance: best}, true
}

// scoreRegex: the query interpreted as a pattern against name and tags.
// Invalid patterns were rejected at query-context build time.
func scoreRegex(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	if q.regex == nil {
		return MatchReason{}, false
	}

	var points float64
	if q.regex.MatchString(doc.entry.Name) {
		points += cfg.RegexNameBonus
	}
	for _, tag := range doc.entry.Tags {
		if q.regex.MatchString(tag) {
			points += cfg.RegexTagBonus
			break
		}
	}

	if points == 0 {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonRegex, Points: points}, true
}

// scoreBigram: adjacent query-token pairs that also appear adjacently in the
// document text.
func scoreBigram(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	hits := 0
	for _, bigram := range q.bigrams {
		if doc.bigramSet[bigram] {
			hits++
		}
	}
	if hits == 0 {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonBigram, Points: float64(hits) * cfg.BigramBonus}, true
}

// scoreSemantic: synonym-expanded keyword matching against the document
// token set.
func scoreSemantic(q *queryContext, doc *document, cfg Config) (MatchReason, bool) {
	hits := 0
	for _, term := range q.expanded {
		if doc.tokenSet[term] {
			hits++
		}
	}
	if hits == 0 {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonSemantic, Points: float64(hits) * cfg.SemanticBonus}, true
}

// scoreDense: TF-IDF cosine between query and document. Chosen over BM25
// after ablation: document-length normalization added nothing measurable for
// short tool descriptions (the BM25 baseline lives on in the eval harness).
func scoreDense(q *queryContext, doc *document, cfg Config, stats *tfidfIndex) (MatchReason, bool) {
	cosine := stats.cosine(q.vec, q.norm, doc.order)
	if cosine <= 0 {
		return MatchReason{}, false
	}
	return MatchReason{Kind: ReasonDense, Points: cosine * cfg.DenseScale}, true
}

// boundedEditDistance returns the Levenshtein distance between a and b, or
// -1 when it exceeds maxDistance. The length pre-check skips the matrix for
// hopeless pairs.
func boundedEditDistance(a, b string, maxDistance int) int {
	lengthDelta := len(a) - len(b)
	if lengthDelta < 0 {
		lengthDelta = -lengthDelta
	}
	if lengthDelta > maxDistance {
		return -1
	}

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		rowMin := current[0]

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			minimum := previous[j] + 1
			if current[j-1]+1 < minimum {
				minimum = current[j-1] + 1
			}
			if previous[j-1]+cost < minimum {
				minimum = previous[j-1] + cost
			}
			current[j] = minimum

			if current[j] < rowMin {
				rowMin = current[j]
			}
		}

		if rowMin > maxDistance {
			return -1
		}
		previous, current = current, previous
	}

	if previous[len(b)] > maxDistance {
		return -1
	}
	return previous[len(b)]
}
