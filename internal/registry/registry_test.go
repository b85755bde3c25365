package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func testEntry(name, category string) ToolEntry {
	return ToolEntry{
		Name:        name,
		Description: "test tool " + name,
		Category:    category,
		Phase:       "research",
		Complexity:  "low",
		Tags:        []string{"test"},
		QuickRef: QuickRef{
			NextAction: "inspect the output",
			NextTools:  []string{"another_tool"},
		},
	}
}

func TestRegister_Basic(t *testing.T) {
	reg := New()

	if err := reg.Register(testEntry("web_search", "research")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	entry := reg.Get("web_search")
	if entry == nil {
		t.Fatal("expected entry, got nil")
	}
	if entry.Category != "research" {
		t.Errorf("expected category research, got %s", entry.Category)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", reg.Len())
	}
}

func TestRegister_Duplicate(t *testing.T) {
	reg := New()

	if err := reg.Register(testEntry("web_search", "research")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if err := reg.Register(testEntry("web_search", "browser")); err == nil {
		t.Error("expected error for duplicate registration, got nil")
	}

	// Original entry must be untouched.
	if reg.Get("web_search").Category != "research" {
		t.Error("duplicate registration overwrote the original entry")
	}
}

func TestRegister_EmptyNextTools(t *testing.T) {
	reg := New()

	entry := testEntry("broken_tool", "research")
	entry.QuickRef.NextTools = nil

	if err := reg.Register(entry); err == nil {
		t.Error("expected error for empty quickRef.nextTools, got nil")
	}
	if reg.Len() != 0 {
		t.Error("invalid entry was registered")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	cases := []struct {
		label  string
		mutate func(*ToolEntry)
	}{
		{"empty name", func(e *ToolEntry) { e.Name = "" }},
		{"empty description", func(e *ToolEntry) { e.Description = "  " }},
		{"empty category", func(e *ToolEntry) { e.Category = "" }},
	}

	for _, tc := range cases {
		reg := New()
		entry := testEntry("some_tool", "research")
		tc.mutate(&entry)

		if err := reg.Register(entry); err == nil {
			t.Errorf("%s: expected registration error, got nil", tc.label)
		}
	}
}

func TestOrderIndex_InsertionOrder(t *testing.T) {
	reg := New()
	names := []string{"tool_c", "tool_a", "tool_b"}
	for _, name := range names {
		if err := reg.Register(testEntry(name, "research")); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	for i, name := range names {
		if reg.OrderIndex(name) != i {
			t.Errorf("expected %s at index %d, got %d", name, i, reg.OrderIndex(name))
		}
	}

	// Unknown names sort last.
	if reg.OrderIndex("missing") != 3 {
		t.Errorf("expected unknown name index 3, got %d", reg.OrderIndex("missing"))
	}
}

func TestQuickRefFor_Hit(t *testing.T) {
	reg := New()
	if err := reg.Register(testEntry("web_search", "research")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result := reg.QuickRefFor("web_search")
	if !result.Found {
		t.Fatal("expected quick-reference hit")
	}
	if len(result.NextTools) == 0 {
		t.Error("expected non-empty next-tool list")
	}
}

func TestQuickRefFor_MissSuggests(t *testing.T) {
	reg := New()
	for _, name := range []string{"web_search", "web_reader", "take_screenshot"} {
		if err := reg.Register(testEntry(name, "research")); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	result := reg.QuickRefFor("web_serch")
	if result.Found {
		t.Fatal("expected miss for typo name")
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if result.Suggestions[0] != "web_search" {
		t.Errorf("expected web_search as nearest suggestion, got %s", result.Suggestions[0])
	}
}

func TestSuggest_NothingClose(t *testing.T) {
	reg := New()
	if err := reg.Register(testEntry("take_screenshot", "browser")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Far from everything; fall back to the first registered name.
	suggestions := reg.Suggest("zzzzzzzzzzzzzzzz")
	if len(suggestions) != 1 || suggestions[0] != "take_screenshot" {
		t.Errorf("expected fallback suggestion, got %v", suggestions)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"web_search", "web_serch", 1},
		{"same", "same", 0},
	}

	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.expected {
			t.Errorf("levenshtein(%q, %q) = %d, expected %d", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestAddChain_Valid(t *testing.T) {
	reg := New()
	for _, name := range []string{"plan_work", "write_code", "run_checks"} {
		if err := reg.Register(testEntry(name, "ship")); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	chain := WorkflowChain{
		Name:        "ship_feature",
		Description: "plan, implement, verify",
		Steps: []ChainStep{
			{Tool: "plan_work"},
			{Tool: "write_code"},
			{Tool: "run_checks", Note: "must pass before shipping"},
		},
	}

	if err := reg.AddChain(chain); err != nil {
		t.Fatalf("add chain failed: %v", err)
	}

	chains := reg.Chains()
	if len(chains) != 1 || chains[0].Name != "ship_feature" {
		t.Errorf("unexpected chains: %+v", chains)
	}
}

func TestAddChain_UnknownStep(t *testing.T) {
	reg := New()
	if err := reg.Register(testEntry("plan_work", "ship")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	chain := WorkflowChain{
		Name:  "broken",
		Steps: []ChainStep{{Tool: "plan_work"}, {Tool: "does_not_exist"}},
	}

	if err := reg.AddChain(chain); err == nil {
		t.Error("expected error for chain referencing unknown tool")
	}
}

func TestLoadCatalog_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")

	data := `{
		"tools": [
			{
				"name": "web_search",
				"description": "Search the web for pages matching a query",
				"category": "research",
				"phase": "research",
				"complexity": "low",
				"tags": ["web", "search"],
				"quickRef": {"nextAction": "read the best hit", "nextTools": ["web_reader"]}
			},
			{
				"name": "web_reader",
				"description": "Fetch and extract readable text from a URL",
				"category": "research",
				"phase": "research",
				"complexity": "low",
				"quickRef": {"nextAction": "summarize findings", "nextTools": ["web_search"]}
			}
		],
		"chains": [
			{
				"name": "research_topic",
				"description": "search then read",
				"steps": [{"tool": "web_search"}, {"tool": "web_reader"}]
			}
		]
	}`

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	reg, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog failed: %v", err)
	}

	if reg.Len() != 2 {
		t.Errorf("expected 2 tools, got %d", reg.Len())
	}
	if reg.Chain("research_topic") == nil {
		t.Error("expected research_topic chain")
	}
}

func TestLoadCatalog_Missing(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}
