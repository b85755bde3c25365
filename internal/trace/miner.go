/*
Package trace mines tool co-occurrence from historical execution logs.

Real sessions show strong sequencing patterns: a tool that frequently follows
another within the same session is a good borderline candidate whenever its
predecessor ranks highly. The miner derives a directed edge set (source tool
→ tools observed shortly after it) from call records and caches it; the
booster adds a fixed bonus to edge targets of top-ranked tools without
touching the already-confident head of the ranking.

Mining is the only operation that touches the call-log store. It happens in
explicit Refresh calls so the ranking path stays free of I/O, and the cache
is invalidated explicitly rather than by timer so tests control it precisely.
*/
package trace

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// CallRecord is one historical tool invocation from the call-log store.
type CallRecord struct {
	SessionID string    `json:"sessionId"`
	ToolName  string    `json:"toolName"`
	Timestamp time.Time `json:"timestamp"`
}

// CallSource is the read-only call-log store collaborator.
type CallSource interface {
	// ListCalls returns call records at or after the given time.
	ListCalls(since time.Time) ([]CallRecord, error)
}

// Config holds the booster constants.
type Config struct {
	// Bonus is the fixed score added per distinct inbound edge from a
	// top-ranked tool.
	Bonus float64 `json:"bonus"`

	// TopN is the size of the already-confident head that emits edges and is
	// itself never boosted.
	TopN int `json:"topN"`

	// Lookahead bounds how many subsequent calls within a session count as
	// "followed by" for edge mining.
	Lookahead int `json:"lookahead"`

	// History bounds how far back mining reads the call log.
	History time.Duration `json:"-"`
}

// DefaultConfig returns the calibrated booster constants.
func DefaultConfig() Config {
	return Config{
		Bonus:     4,
		TopN:      5,
		Lookahead: 3,
		History:   30 * 24 * time.Hour,
	}
}

// Miner derives and caches the co-occurrence edge set.
type Miner struct {
	source CallSource
	cfg    Config

	mu    sync.RWMutex
	edges map[string][]string
}

// NewMiner creates a miner over a call-log source. The edge cache starts
// empty; call Refresh to populate it.
func NewMiner(source CallSource, cfg Config) *Miner {
	return &Miner{source: source, cfg: cfg}
}

// Refresh re-mines the edge set from the call-log store. This is the only
// method that performs I/O.
func (m *Miner) Refresh() error {
	if m.source == nil {
		return nil
	}

	since := time.Time{}
	if m.cfg.History > 0 {
		since = time.Now().Add(-m.cfg.History)
	}

	records, err := m.source.ListCalls(since)
	if err != nil {
		return fmt.Errorf("failed to list call records: %w", err)
	}

	edges := MineEdges(records, m.cfg.Lookahead)

	m.mu.Lock()
	m.edges = edges
	m.mu.Unlock()
	return nil
}

// Edges returns the cached co-occurrence map. The result is shared and must
// be treated as read-only; an unpopulated cache yields nil, which the booster
// treats as a no-op.
func (m *Miner) Edges() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.edges
}

// Invalidate clears the cached edge set.
func (m *Miner) Invalidate() {
	m.mu.Lock()
	m.edges = nil
	m.mu.Unlock()
}

// MineEdges builds the co-occurrence map from call records: tool A gains an
// edge to tool B when B was invoked within `lookahead` calls after A in the
// same session. Self-edges are dropped; targets are deduplicated and kept in
// first-observed order.
func MineEdges(records []CallRecord, lookahead int) map[string][]string {
	if lookahead <= 0 {
		lookahead = 1
	}

	// Group into per-session timelines.
	sessions := make(map[string][]CallRecord)
	var sessionOrder []string
	for _, record := range records {
		if record.SessionID == "" || record.ToolName == "" {
			continue
		}
		if _, seen := sessions[record.SessionID]; !seen {
			sessionOrder = append(sessionOrder, record.SessionID)
		}
		sessions[record.SessionID] = append(sessions[record.SessionID], record)
	}

	edges := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, sessionID := range sessionOrder {
		timeline := sessions[sessionID]
		sort.SliceStable(timeline, func(i, j int) bool {
			return timeline[i].Timestamp.Before(timeline[j].Timestamp)
		})

		for i, call := range timeline {
			for j := i + 1; j <= i+lookahead && j < len(timeline); j++ {
				target := timeline[j].ToolName
				if target == call.ToolName {
					continue
				}
				if seen[call.ToolName] == nil {
					seen[call.ToolName] = make(map[string]bool)
				}
				if seen[call.ToolName][target] {
					continue
				}
				seen[call.ToolName][target] = true
				edges[call.ToolName] = append(edges[call.ToolName], target)
			}
		}
	}

	return edges
}
