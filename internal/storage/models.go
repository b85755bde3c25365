package storage

import "time"

// SearchRecord represents a search query for analytics.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA256 hash of the search query for privacy.
	QueryHash string `json:"query_hash"`

	// Mode is the strategy mode the search ran with.
	Mode string `json:"mode"`

	// Timestamp is when the search was performed.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`
}

// StoredEmbedding is a cached embedding vector for a tool or domain node.
type StoredEmbedding struct {
	// Name is the tool name, or "domain:<category>" for a domain node.
	Name string `json:"name"`

	// Vector is the embedding vector.
	Vector []float32 `json:"vector"`

	// NodeType is "tool" or "domain".
	NodeType string `json:"node_type"`

	// Version is the model version used to generate the embedding.
	Version string `json:"version"`

	// CreatedAt is when the embedding was stored.
	CreatedAt time.Time `json:"created_at"`
}
