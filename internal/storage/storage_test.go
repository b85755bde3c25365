package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

func testStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store := NewStorageAt(filepath.Join(t.TempDir(), "scout.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCallLog_RoundTrip(t *testing.T) {
	store := testStorage(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []trace.CallRecord{
		{SessionID: "s1", ToolName: "web_search", Timestamp: base},
		{SessionID: "s1", ToolName: "web_reader", Timestamp: base.Add(time.Second)},
		{SessionID: "s2", ToolName: "run_tests", Timestamp: base.Add(2 * time.Second)},
	}
	for _, record := range records {
		if err := store.RecordCall(record); err != nil {
			t.Fatalf("record call failed: %v", err)
		}
	}

	listed, err := store.ListCalls(time.Time{})
	if err != nil {
		t.Fatalf("list calls failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 records, got %d", len(listed))
	}

	// Oldest first, so the miner sees sessions in execution order.
	if listed[0].ToolName != "web_search" || listed[2].ToolName != "run_tests" {
		t.Errorf("unexpected order: %v", listed)
	}

	// The since filter excludes older records.
	recent, err := store.ListCalls(base.Add(2 * time.Second))
	if err != nil {
		t.Fatalf("list calls failed: %v", err)
	}
	if len(recent) != 1 || recent[0].ToolName != "run_tests" {
		t.Errorf("unexpected filtered records: %v", recent)
	}
}

func TestCallLog_ZeroTimestampDefaults(t *testing.T) {
	store := testStorage(t)

	if err := store.RecordCall(trace.CallRecord{SessionID: "s1", ToolName: "web_search"}); err != nil {
		t.Fatalf("record call failed: %v", err)
	}

	listed, err := store.ListCalls(time.Time{})
	if err != nil {
		t.Fatalf("list calls failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Timestamp.IsZero() {
		t.Errorf("expected a defaulted timestamp, got %v", listed)
	}
}

func TestEmbeddings_RoundTrip(t *testing.T) {
	store := testStorage(t)

	vector := []float32{0.1, 0.2, 0.3}
	if err := store.SaveEmbedding("web_search", vector, "tool", "v1"); err != nil {
		t.Fatalf("save embedding failed: %v", err)
	}
	if err := store.SaveEmbedding("domain:research", []float32{0.4, 0.5, 0.6}, "domain", "v1"); err != nil {
		t.Fatalf("save embedding failed: %v", err)
	}

	embeddings, err := store.ListEmbeddings()
	if err != nil {
		t.Fatalf("list embeddings failed: %v", err)
	}
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}

	byName := make(map[string]StoredEmbedding)
	for _, embedding := range embeddings {
		byName[embedding.Name] = embedding
	}

	stored, ok := byName["web_search"]
	if !ok {
		t.Fatal("missing web_search embedding")
	}
	if stored.NodeType != "tool" || stored.Version != "v1" {
		t.Errorf("unexpected metadata: %+v", stored)
	}
	if len(stored.Vector) != 3 || stored.Vector[1] != 0.2 {
		t.Errorf("vector mangled: %v", stored.Vector)
	}
	if byName["domain:research"].NodeType != "domain" {
		t.Error("domain node type lost")
	}
}

func TestEmbeddings_Replace(t *testing.T) {
	store := testStorage(t)

	if err := store.SaveEmbedding("web_search", []float32{1}, "tool", "v1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.SaveEmbedding("web_search", []float32{2}, "tool", "v2"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	embeddings, err := store.ListEmbeddings()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(embeddings) != 1 {
		t.Fatalf("expected single row after replace, got %d", len(embeddings))
	}
	if embeddings[0].Version != "v2" || embeddings[0].Vector[0] != 2 {
		t.Errorf("replace kept stale data: %+v", embeddings[0])
	}
}

func TestRecordSearch(t *testing.T) {
	store := testStorage(t)

	record := SearchRecord{
		SearchID:     "11111111-2222-3333-4444-555555555555",
		QueryHash:    HashQuery("verify the current work"),
		Mode:         "hybrid",
		Timestamp:    time.Now(),
		ResultsCount: 4,
	}
	if err := store.RecordSearch(record); err != nil {
		t.Errorf("record search failed: %v", err)
	}

	// Duplicate search IDs violate the unique constraint but only warn.
	if err := store.RecordSearch(record); err != nil {
		t.Errorf("duplicate record must degrade gracefully, got %v", err)
	}
}

func TestCleanup_RemovesOldRecords(t *testing.T) {
	store := testStorage(t)

	old := trace.CallRecord{SessionID: "s1", ToolName: "old_tool", Timestamp: time.Now().Add(-60 * 24 * time.Hour)}
	fresh := trace.CallRecord{SessionID: "s1", ToolName: "fresh_tool", Timestamp: time.Now()}
	if err := store.RecordCall(old); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := store.RecordCall(fresh); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if err := store.Cleanup(30 * 24 * time.Hour); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	listed, err := store.ListCalls(time.Time{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ToolName != "fresh_tool" {
		t.Errorf("cleanup kept wrong records: %v", listed)
	}
}

func TestDisabledStorage_NoOps(t *testing.T) {
	store := &SQLiteStorage{enabled: false}

	if err := store.RecordCall(trace.CallRecord{SessionID: "s", ToolName: "t"}); err != nil {
		t.Errorf("disabled RecordCall must be a no-op, got %v", err)
	}
	records, err := store.ListCalls(time.Time{})
	if err != nil || len(records) != 0 {
		t.Errorf("disabled ListCalls must return empty, got %v, %v", records, err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("disabled Close must be a no-op, got %v", err)
	}
}

func TestHashQuery(t *testing.T) {
	a := HashQuery("verify the current work")
	b := HashQuery("verify the current work")
	c := HashQuery("something else")

	if a != b {
		t.Error("hash must be deterministic")
	}
	if a == c {
		t.Error("distinct queries must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
