package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/toolscout/tool-scout-mcp/internal/registry"
	"github.com/toolscout/tool-scout-mcp/internal/search"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	reg := registry.New()
	entries := []registry.ToolEntry{
		{
			Name:        "web_search",
			Description: "Search the web for pages matching a query",
			Category:    "research",
			Phase:       "research",
			Complexity:  "low",
			Tags:        []string{"web", "search"},
			QuickRef:    registry.QuickRef{NextAction: "read the best hit", NextTools: []string{"web_reader"}},
		},
		{
			Name:        "web_reader",
			Description: "Fetch and extract readable text from a URL",
			Category:    "research",
			Phase:       "research",
			Complexity:  "low",
			QuickRef:    registry.QuickRef{NextAction: "summarize findings", NextTools: []string{"web_search"}},
		},
	}
	for _, entry := range entries {
		if err := reg.Register(entry); err != nil {
			t.Fatalf("register %s failed: %v", entry.Name, err)
		}
	}
	if err := reg.AddChain(registry.WorkflowChain{
		Name:        "research_topic",
		Description: "search then read",
		Steps:       []registry.ChainStep{{Tool: "web_search"}, {Tool: "web_reader"}},
	}); err != nil {
		t.Fatalf("add chain failed: %v", err)
	}

	engine := search.NewEngine(reg, search.DefaultConfig())
	return NewServer(engine, nil)
}

func call(t *testing.T, s *Server, method string, params string) *MCPResponse {
	t.Helper()

	request := `{"jsonrpc": "2.0", "id": 1, "method": "` + method + `"`
	if params != "" {
		request += `, "params": ` + params
	}
	request += `}`

	response, err := s.handleRequest([]byte(request))
	if err != nil {
		t.Fatalf("%s failed: %v", method, err)
	}
	return response
}

// resultText extracts the text content from a tools/call response.
func resultText(t *testing.T, response *MCPResponse) string {
	t.Helper()

	if response.Error != nil {
		t.Fatalf("unexpected error: %+v", response.Error)
	}
	result, ok := response.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result shape: %T", response.Result)
	}
	content := result["content"].([]map[string]interface{})
	return content[0]["text"].(string)
}

func TestHandleInitialize(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "initialize", "")
	result := response.Result.(map[string]interface{})
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "tool-scout-mcp" {
		t.Errorf("unexpected server name: %v", info["name"])
	}
}

func TestHandleToolsList(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/list", "")
	result := response.Result.(map[string]interface{})
	tools := result["tools"].([]map[string]interface{})
	if len(tools) != 4 {
		t.Fatalf("expected 4 meta-tools, got %d", len(tools))
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool["name"].(string)] = true
	}
	for _, expected := range []string{"scout_search", "scout_quickref", "scout_chains", "scout_stats"} {
		if !names[expected] {
			t.Errorf("missing meta-tool %s", expected)
		}
	}
}

func TestToolsCall_Search(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call",
		`{"name": "scout_search", "arguments": {"query": "search the web", "limit": 3}}`)
	text := resultText(t, response)

	if !strings.Contains(text, "web_search") {
		t.Errorf("expected web_search in results, got:\n%s", text)
	}
}

func TestToolsCall_SearchEmptyQuery(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call", `{"name": "scout_search", "arguments": {"query": "  "}}`)
	if response.Error == nil {
		t.Error("expected error for empty query")
	}
}

func TestToolsCall_QuickRef(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call", `{"name": "scout_quickref", "arguments": {"name": "web_search"}}`)
	text := resultText(t, response)
	if !strings.Contains(text, "read the best hit") || !strings.Contains(text, "web_reader") {
		t.Errorf("expected quick-reference guidance, got:\n%s", text)
	}

	// Typo gets a suggestion, not an error.
	response = call(t, s, "tools/call", `{"name": "scout_quickref", "arguments": {"name": "web_serch"}}`)
	text = resultText(t, response)
	if !strings.Contains(text, "Did you mean") || !strings.Contains(text, "web_search") {
		t.Errorf("expected suggestion for typo, got:\n%s", text)
	}
}

func TestToolsCall_Chains(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call", `{"name": "scout_chains", "arguments": {}}`)
	text := resultText(t, response)
	if !strings.Contains(text, "research_topic: search then read") {
		t.Errorf("expected chain listing, got:\n%s", text)
	}
	if !strings.Contains(text, "1. web_search") || !strings.Contains(text, "2. web_reader") {
		t.Errorf("expected numbered steps, got:\n%s", text)
	}
}

func TestToolsCall_Stats(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call", `{"name": "scout_stats", "arguments": {}}`)
	text := resultText(t, response)
	if !strings.Contains(text, "2 tools") {
		t.Errorf("expected tool count, got:\n%s", text)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/call", `{"name": "scout_bogus", "arguments": {}}`)
	if response.Error == nil || response.Error.Code != -32602 {
		t.Errorf("expected invalid-params error, got %+v", response.Error)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "no/such/method", "")
	if response.Error == nil || response.Error.Code != -32601 {
		t.Errorf("expected method-not-found, got %+v", response.Error)
	}
}

func TestHandleRequest_InvalidJSON(t *testing.T) {
	s := testServer(t)

	if _, err := s.handleRequest([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestRun_WritesResponsesToStdout(t *testing.T) {
	s := testServer(t)

	inReader, inWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdin pipe: %v", err)
	}
	outReader, outWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}

	oldStdin, oldStdout := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = inReader, outWriter
	defer func() {
		os.Stdin, os.Stdout = oldStdin, oldStdout
	}()

	fmt.Fprintln(inWriter, `{"jsonrpc": "2.0", "id": 1, "method": "tools/list"}`)
	fmt.Fprintln(inWriter, `{not json`)
	inWriter.Close()

	if err := s.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	outWriter.Close()

	data, err := io.ReadAll(outReader)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 response lines, got %d:\n%s", len(lines), data)
	}

	var listed MCPResponse
	if err := json.Unmarshal([]byte(lines[0]), &listed); err != nil {
		t.Fatalf("first line is not a response: %v", err)
	}
	if listed.Result == nil || listed.Error != nil {
		t.Errorf("expected tools/list result, got %+v", listed)
	}

	var parseError MCPResponse
	if err := json.Unmarshal([]byte(lines[1]), &parseError); err != nil {
		t.Fatalf("second line is not a response: %v", err)
	}
	if parseError.Error == nil || parseError.Error.Code != -32700 {
		t.Errorf("expected parse-error envelope, got %+v", parseError)
	}
}

func TestResponse_Marshals(t *testing.T) {
	s := testServer(t)

	response := call(t, s, "tools/list", "")
	if _, err := json.Marshal(response); err != nil {
		t.Errorf("response must marshal: %v", err)
	}
}
