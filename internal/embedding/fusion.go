package embedding

// FusionConfig holds the weighted Reciprocal Rank Fusion constants.
//
// A node at rank r contributes alpha × Scale / (K + r). Domain nodes carry a
// larger alpha than tool nodes: a close domain match should lift all sibling
// tools in that category, not just the one tool whose vector happens to be
// nearest. The production values were tuned by the evaluation harness for
// this single-server retrieval setting; treat them as a starting point for
// recalibration, not ground truth.
type FusionConfig struct {
	// AlphaTool weights tool-node contributions.
	AlphaTool float64 `json:"alphaTool"`

	// AlphaDomain weights domain-node contributions. Calibrated above
	// AlphaTool for upward category traversal.
	AlphaDomain float64 `json:"alphaDomain"`

	// K is the rank-fusion constant in 1/(K+r).
	K float64 `json:"k"`

	// Scale converts the reciprocal rank into score points comparable to the
	// lexical strategies.
	Scale float64 `json:"scale"`

	// MinSimilarity is the cosine cutoff below which a node does not enter
	// its rank list at all.
	MinSimilarity float64 `json:"minSimilarity"`
}

// DefaultFusionConfig returns the calibrated production constants.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		AlphaTool:     1.0,
		AlphaDomain:   1.5,
		K:             20,
		Scale:         1000,
		MinSimilarity: 0.25,
	}
}

// ToolPoints is the score contribution of a tool node at the given 1-based rank.
func (c FusionConfig) ToolPoints(rank int) float64 {
	return c.AlphaTool * c.Scale / (c.K + float64(rank))
}

// DomainPoints is the score contribution of a domain node at the given 1-based rank.
func (c FusionConfig) DomainPoints(rank int) float64 {
	return c.AlphaDomain * c.Scale / (c.K + float64(rank))
}
