package embedding

import (
	"math"
	"testing"
)

func testEntries() []IndexEntry {
	return []IndexEntry{
		{Name: "web_search", Vector: []float32{1, 0, 0}, NodeType: NodeTool},
		{Name: "take_screenshot", Vector: []float32{0, 1, 0}, NodeType: NodeTool},
		{Name: DomainNodeName("research"), Vector: []float32{0.8, 0.6, 0}, NodeType: NodeDomain},
		{Name: DomainNodeName("browser"), Vector: []float32{0, 0, 1}, NodeType: NodeDomain},
	}
}

func TestIndex_LoadAndReset(t *testing.T) {
	idx := NewIndex()
	if !idx.Empty() || idx.Len() != 0 {
		t.Fatal("new index must be empty")
	}

	idx.Load(testEntries())
	if idx.Empty() || idx.Len() != 4 {
		t.Errorf("expected 4 nodes, got %d", idx.Len())
	}

	idx.Reset()
	if !idx.Empty() {
		t.Error("reset index must be empty")
	}
}

func TestIndex_RankSplitsNodeTypes(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	ranking := idx.Rank([]float32{1, 0, 0}, DefaultFusionConfig())

	if len(ranking.Tools) != 1 || ranking.Tools[0].Name != "web_search" {
		t.Fatalf("unexpected tool ranking: %+v", ranking.Tools)
	}
	if ranking.Tools[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", ranking.Tools[0].Rank)
	}

	// Domain names come back without the prefix.
	if len(ranking.Domains) != 1 || ranking.Domains[0].Name != "research" {
		t.Fatalf("unexpected domain ranking: %+v", ranking.Domains)
	}
}

func TestIndex_MinSimilarityCutoff(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	// take_screenshot and domain:browser are orthogonal to the query: both
	// must be excluded entirely, not merely ranked last.
	ranking := idx.Rank([]float32{1, 0, 0}, DefaultFusionConfig())
	for _, node := range ranking.Tools {
		if node.Name == "take_screenshot" {
			t.Error("orthogonal tool node must be cut off")
		}
	}
	for _, node := range ranking.Domains {
		if node.Name == "browser" {
			t.Error("orthogonal domain node must be cut off")
		}
	}

	// With the cutoff disabled they come back.
	cfg := DefaultFusionConfig()
	cfg.MinSimilarity = -1
	ranking = idx.Rank([]float32{1, 0, 0}, cfg)
	if len(ranking.Tools) != 2 || len(ranking.Domains) != 2 {
		t.Errorf("expected all nodes without cutoff, got %d tools, %d domains",
			len(ranking.Tools), len(ranking.Domains))
	}
}

func TestIndex_EmptyQueryVector(t *testing.T) {
	idx := NewIndex()
	idx.Load(testEntries())

	ranking := idx.Rank(nil, DefaultFusionConfig())
	if len(ranking.Tools) != 0 || len(ranking.Domains) != 0 {
		t.Error("nil query vector must yield an empty ranking")
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		a, b     []float32
		expected float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{1, 0}, []float32{0, 0}, 0},     // zero vector
		{[]float32{1, 0}, []float32{1, 0, 0}, 0},  // length mismatch
	}

	for _, tc := range cases {
		if got := cosineSimilarity(tc.a, tc.b); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("cosineSimilarity(%v, %v) = %.4f, expected %.4f", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestFusionPoints(t *testing.T) {
	cfg := DefaultFusionConfig()

	// Rank 1 tool node: 1.0 × 1000 / 21.
	if got, want := cfg.ToolPoints(1), 1000.0/21.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ToolPoints(1) = %.4f, expected %.4f", got, want)
	}

	// Domain nodes outweigh tool nodes at every rank.
	for rank := 1; rank <= 10; rank++ {
		if cfg.DomainPoints(rank) <= cfg.ToolPoints(rank) {
			t.Errorf("rank %d: domain points must exceed tool points", rank)
		}
	}

	// Contributions decay with rank.
	if cfg.ToolPoints(2) >= cfg.ToolPoints(1) {
		t.Error("points must decay with rank")
	}
}
