package search

import "math"

// tfidfIndex holds the precomputed term statistics for the dense strategy.
// Built once per engine from the catalog snapshot; queries reuse the same
// IDF table so the two vector spaces are comparable.
type tfidfIndex struct {
	n        int
	idf      map[string]float64
	docVecs  []map[string]float64
	docNorms []float64
}

// buildTFIDF computes document frequencies, IDF weights, and per-document
// weighted term vectors over the catalog.
func buildTFIDF(docs []*document) *tfidfIndex {
	stats := &tfidfIndex{
		n:        len(docs),
		idf:      make(map[string]float64),
		docVecs:  make([]map[string]float64, len(docs)),
		docNorms: make([]float64, len(docs)),
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for token := range doc.tokenSet {
			df[token]++
		}
	}

	// Smoothed IDF keeps weights positive even for terms present in every
	// document.
	for token, count := range df {
		stats.idf[token] = math.Log(float64(1+stats.n)/float64(1+count)) + 1
	}

	for i, doc := range docs {
		tf := make(map[string]int)
		for _, token := range doc.tokens {
			tf[token]++
		}

		vec := make(map[string]float64, len(tf))
		var sumSquares float64
		for token, count := range tf {
			weight := float64(count) * stats.idf[token]
			vec[token] = weight
			sumSquares += weight * weight
		}

		stats.docVecs[i] = vec
		stats.docNorms[i] = math.Sqrt(sumSquares)
	}

	return stats
}

// queryVector builds the weighted query vector. Terms absent from the whole
// catalog are dropped: they cannot contribute to any cosine.
func (x *tfidfIndex) queryVector(tokens []string) (map[string]float64, float64) {
	tf := make(map[string]int)
	for _, token := range tokens {
		if _, known := x.idf[token]; known {
			tf[token]++
		}
	}

	vec := make(map[string]float64, len(tf))
	var sumSquares float64
	for token, count := range tf {
		weight := float64(count) * x.idf[token]
		vec[token] = weight
		sumSquares += weight * weight
	}

	return vec, math.Sqrt(sumSquares)
}

// cosine compares a query vector with the document at the given index.
func (x *tfidfIndex) cosine(queryVec map[string]float64, queryNorm float64, docIndex int) float64 {
	if queryNorm == 0 || docIndex < 0 || docIndex >= len(x.docVecs) {
		return 0
	}
	docNorm := x.docNorms[docIndex]
	if docNorm == 0 {
		return 0
	}

	docVec := x.docVecs[docIndex]
	var dot float64
	for token, weight := range queryVec {
		dot += weight * docVec[token]
	}

	return dot / (queryNorm * docNorm)
}
