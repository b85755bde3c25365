/*
Package embedding holds the bipartite similarity index used to fuse vector
ranks into the lexical scores.

The index contains two disjoint node kinds in the same vector space: one node
per tool and one node per category ("domain:<category>"). The two kinds are
ranked separately against a query vector and fused with weighted Reciprocal
Rank Fusion, so a close domain match lifts every sibling tool in that
category rather than a single tool vector.

The index is optional. An unloaded index contributes nothing and lexical
ranking proceeds unchanged. Snapshot replacement is an atomic pointer swap so
concurrent queries never observe a half-loaded index.
*/
package embedding

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"
)

// NodeType distinguishes the two kinds of nodes in the bipartite index.
type NodeType string

const (
	// NodeTool is a vector for a single capability.
	NodeTool NodeType = "tool"

	// NodeDomain is a vector for a whole category; its entry name is
	// "domain:<category>".
	NodeDomain NodeType = "domain"
)

// DomainPrefix prefixes domain node names in the index.
const DomainPrefix = "domain:"

// DomainNodeName returns the index entry name for a category's domain node.
func DomainNodeName(category string) string {
	return DomainPrefix + category
}

// IndexEntry is one node of the bipartite index.
type IndexEntry struct {
	// Name is the tool name, or "domain:<category>" for a domain node.
	Name string `json:"name"`

	// Vector is the precomputed embedding. All vectors in one index must
	// share the same length.
	Vector []float32 `json:"vector"`

	// NodeType is "tool" or "domain".
	NodeType NodeType `json:"nodeType"`
}

// snapshot is the immutable loaded state of an index.
type snapshot struct {
	tools   []IndexEntry
	domains []IndexEntry
}

// Index is the atomically swappable embedding index handle. The zero state
// (or after Reset) is a valid, empty index.
type Index struct {
	snap atomic.Pointer[snapshot]
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	idx := &Index{}
	idx.snap.Store(&snapshot{})
	return idx
}

// Load replaces the index contents with the given entries. Entries are split
// by node type; the swap is atomic with respect to concurrent Rank calls.
func (x *Index) Load(entries []IndexEntry) {
	snap := &snapshot{}
	for _, entry := range entries {
		switch entry.NodeType {
		case NodeDomain:
			snap.domains = append(snap.domains, entry)
		default:
			snap.tools = append(snap.tools, entry)
		}
	}
	x.snap.Store(snap)
}

// Reset clears the index. Ranking degrades to lexical-only.
func (x *Index) Reset() {
	x.snap.Store(&snapshot{})
}

// Empty reports whether the index holds no nodes.
func (x *Index) Empty() bool {
	snap := x.snap.Load()
	return len(snap.tools) == 0 && len(snap.domains) == 0
}

// Len returns the total node count.
func (x *Index) Len() int {
	snap := x.snap.Load()
	return len(snap.tools) + len(snap.domains)
}

// RankedNode is one node of a similarity ranking.
type RankedNode struct {
	// Name is the tool name, or the bare category for domain nodes.
	Name string

	// Similarity is the cosine similarity against the query vector.
	Similarity float64

	// Rank is the 1-based position within the node type's ranking.
	Rank int
}

// Ranking holds the two per-type rankings for one query vector.
type Ranking struct {
	Tools   []RankedNode
	Domains []RankedNode
}

// Rank computes the per-type similarity rankings for a query vector. Nodes
// below cfg.MinSimilarity are left out entirely so embedding-distant nodes
// contribute nothing downstream. A nil query vector or empty index yields an
// empty ranking.
func (x *Index) Rank(queryVec []float32, cfg FusionConfig) Ranking {
	if len(queryVec) == 0 {
		return Ranking{}
	}
	snap := x.snap.Load()

	return Ranking{
		Tools:   rankNodes(snap.tools, queryVec, cfg.MinSimilarity, false),
		Domains: rankNodes(snap.domains, queryVec, cfg.MinSimilarity, true),
	}
}

// rankNodes scores one node kind and returns the qualifying nodes in
// descending similarity order with 1-based ranks assigned.
func rankNodes(entries []IndexEntry, queryVec []float32, minSimilarity float64, stripDomain bool) []RankedNode {
	ranked := make([]RankedNode, 0, len(entries))

	for _, entry := range entries {
		similarity := cosineSimilarity(queryVec, entry.Vector)
		if similarity < minSimilarity {
			continue
		}
		name := entry.Name
		if stripDomain {
			name = strings.TrimPrefix(name, DomainPrefix)
		}
		ranked = append(ranked, RankedNode{Name: name, Similarity: similarity})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// cosineSimilarity computes cosine similarity between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
