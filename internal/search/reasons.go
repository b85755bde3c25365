package search

import "fmt"

// ReasonKind identifies which strategy or fusion source contributed score.
type ReasonKind string

const (
	ReasonExact     ReasonKind = "exact"
	ReasonPrefix    ReasonKind = "prefix"
	ReasonFuzzy     ReasonKind = "fuzzy"
	ReasonRegex     ReasonKind = "regex"
	ReasonBigram    ReasonKind = "bigram"
	ReasonSemantic  ReasonKind = "semantic"
	ReasonDense     ReasonKind = "dense"
	ReasonToolRRF   ReasonKind = "embedding:tool_rrf"
	ReasonDomainRRF ReasonKind = "embedding:domain_rrf"
	ReasonTraceEdge ReasonKind = "trace_edge"
)

// MatchReason is one tagged contribution to a result's score. Explain-mode
// consumers can switch on Kind instead of parsing formatted text; String
// produces the compact human-readable form.
type MatchReason struct {
	Kind   ReasonKind `json:"kind"`
	Points float64    `json:"points"`

	// Distance is the edit distance for fuzzy contributions.
	Distance int `json:"distance,omitempty"`

	// Rank is the 1-based similarity rank for RRF contributions.
	Rank int `json:"rank,omitempty"`

	// Category is the matched domain node for domain RRF contributions.
	Category string `json:"category,omitempty"`
}

// String renders the reason in its compact tag form, e.g. "exact",
// "fuzzy(1)", "embedding:domain_rrf(research, rank=2)", "trace_edge:+4".
func (m MatchReason) String() string {
	switch m.Kind {
	case ReasonFuzzy:
		return fmt.Sprintf("fuzzy(%d)", m.Distance)
	case ReasonToolRRF:
		return fmt.Sprintf("embedding:tool_rrf(rank=%d)", m.Rank)
	case ReasonDomainRRF:
		return fmt.Sprintf("embedding:domain_rrf(%s, rank=%d)", m.Category, m.Rank)
	case ReasonTraceEdge:
		return fmt.Sprintf("trace_edge:+%g", m.Points)
	default:
		return string(m.Kind)
	}
}
