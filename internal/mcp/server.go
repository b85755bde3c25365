/*
Package mcp implements the MCP server that exposes the discovery meta-tools.

The server uses stdio transport and exposes 4 meta-tools:
  - scout_search: Ranked, explainable tool discovery for a natural-language query
  - scout_quickref: Quick-reference guidance for a tool name (with suggestions on miss)
  - scout_chains: List the registered multi-step workflow chains
  - scout_stats: Catalog and index statistics
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toolscout/tool-scout-mcp/internal/registry"
	"github.com/toolscout/tool-scout-mcp/internal/search"
	"github.com/toolscout/tool-scout-mcp/internal/storage"
	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

// Server represents the tool-scout-mcp MCP server.
type Server struct {
	engine *search.Engine
	store  storage.Storage

	// sessionID groups this server run's call records in the call log so the
	// trace miner can reconstruct the session timeline.
	sessionID string
}

// NewServer creates a new MCP server over a built engine. Storage may be nil
// when analytics are disabled.
func NewServer(engine *search.Engine, store storage.Storage) *Server {
	return &Server{
		engine:    engine,
		store:     store,
		sessionID: uuid.NewString(),
	}
}

// Run starts the MCP server using stdio transport.
// This blocks until stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := scanner.Bytes()

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "tool-scout-mcp",
				"version": "0.1.0",
			},
		},
	}, nil
}

// handleToolsList returns the list of available meta-tools with AI-native descriptions.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	categories := s.engine.Registry().Categories()

	tools := []map[string]interface{}{
		{
			"name": "scout_search",
			"description": fmt.Sprintf(`Find the right tool for a task using natural language.

WHEN TO USE: Whenever you need a capability and don't know its exact name.

CATEGORIES: %s

Example queries: "verify the current work", "start a research cycle", "record a decision"`,
				strings.Join(categories, ", ")),
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Natural language description of what you want to do",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"description": "Strategy subset: hybrid (default), exact, prefix, fuzzy, regex, bigram, semantic, dense, embedding",
					},
					"category": map[string]interface{}{
						"type":        "string",
						"description": "Restrict results to one category",
						"enum":        categories,
					},
					"phase": map[string]interface{}{
						"type":        "string",
						"description": "Restrict results to one workflow phase",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum results (default 10)",
					},
					"explain": map[string]interface{}{
						"type":        "boolean",
						"description": "Attach per-strategy match reasons to each result",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "scout_quickref",
			"description": `Get quick-reference guidance for a specific tool: what to do next and which tools typically follow it.

WHEN TO USE: After picking a tool from scout_search, before invoking it.

Returns: next action guidance and follow-up tool names. Unknown names get "did you mean" suggestions.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Exact tool name",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			"name": "scout_chains",
			"description": `List the registered multi-step workflow chains.

WHEN TO USE: When a task spans several tools and you want the proven sequence instead of assembling one ad hoc.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			"name": "scout_stats",
			"description": `Catalog and index statistics: tool count, categories, embedding index size, chain count.

WHEN TO USE: For diagnostics, or to confirm the catalog loaded as expected.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result string
	var err error

	switch params.Name {
	case "scout_search":
		result, err = s.execSearch(params.Arguments)
	case "scout_quickref":
		name, _ := params.Arguments["name"].(string)
		result, err = s.execQuickRef(name)
	case "scout_chains":
		result, err = s.execChains()
	case "scout_stats":
		result, err = s.execStats()
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}, nil
}

// execSearch runs a ranked discovery query.
func (s *Server) execSearch(args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query must not be empty")
	}

	opts := search.Options{}
	if mode, ok := args["mode"].(string); ok {
		opts.Mode = search.ParseMode(mode)
	}
	if category, ok := args["category"].(string); ok {
		opts.Category = category
	}
	if phase, ok := args["phase"].(string); ok {
		opts.Phase = phase
	}
	if limit, ok := args["limit"].(float64); ok {
		opts.Limit = int(limit)
	}
	if explain, ok := args["explain"].(bool); ok {
		opts.Explain = explain
	}

	results := s.engine.Search(query, opts)
	s.recordSearch(query, string(opts.Mode), len(results))

	if len(results) == 0 {
		return fmt.Sprintf("No tools matched '%s'. Try broader wording or scout_chains for workflow entry points.", query), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top matches for '%s':\n", query)
	for i, result := range results {
		fmt.Fprintf(&sb, "%2d. %s (score %.1f, %s", i+1, result.Name, result.Score, result.Category)
		if result.Phase != "" {
			fmt.Fprintf(&sb, "/%s", result.Phase)
		}
		sb.WriteString(")")
		if len(result.MatchReasons) > 0 {
			reasons := make([]string, len(result.MatchReasons))
			for j, reason := range result.MatchReasons {
				reasons[j] = reason.String()
			}
			fmt.Fprintf(&sb, " [%s]", strings.Join(reasons, ", "))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nNext step: scout_quickref(name) for follow-up guidance on a match.")
	return sb.String(), nil
}

// execQuickRef returns quick-reference guidance for a tool, recording the
// lookup as a call so the trace miner learns real usage sequences.
func (s *Server) execQuickRef(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name must not be empty")
	}

	ref := s.engine.Registry().QuickRefFor(name)
	if !ref.Found {
		suggestion := ""
		if len(ref.Suggestions) > 0 {
			suggestion = fmt.Sprintf(" Did you mean: %s?", strings.Join(ref.Suggestions, ", "))
		}
		return fmt.Sprintf("Tool '%s' is not registered.%s", name, suggestion), nil
	}

	s.recordCall(ref.Name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s", ref.Name, ref.Category)
	if ref.Phase != "" {
		fmt.Fprintf(&sb, "/%s", ref.Phase)
	}
	sb.WriteString(")\n")
	fmt.Fprintf(&sb, "Next action: %s\n", ref.NextAction)
	fmt.Fprintf(&sb, "Typically followed by: %s\n", strings.Join(ref.NextTools, ", "))
	return sb.String(), nil
}

// execChains lists the registered workflow chains.
func (s *Server) execChains() (string, error) {
	chains := s.engine.Registry().Chains()
	if len(chains) == 0 {
		return "No workflow chains registered.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Workflow chains (%d):\n", len(chains))
	for _, chain := range chains {
		fmt.Fprintf(&sb, "\n%s: %s\n", chain.Name, chain.Description)
		for i, step := range chain.Steps {
			fmt.Fprintf(&sb, "  %d. %s", i+1, step.Tool)
			if step.Note != "" {
				fmt.Fprintf(&sb, " (%s)", step.Note)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// execStats reports catalog and index statistics.
func (s *Server) execStats() (string, error) {
	reg := s.engine.Registry()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Catalog: %d tools across %d categories\n", reg.Len(), len(reg.Categories()))
	fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(reg.Categories(), ", "))
	fmt.Fprintf(&sb, "Workflow chains: %d\n", len(reg.Chains()))
	fmt.Fprintf(&sb, "Embedding index: %d nodes\n", s.engine.EmbeddingIndex().Len())
	return sb.String(), nil
}

// sendResponse writes a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)
	fmt.Println(string(data))
}

// sendError writes a parse-error response to stdout.
func (s *Server) sendError(err error) {
	s.sendResponse(&MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	})
}

// recordSearch persists search analytics. Storage failures never fail the query.
func (s *Server) recordSearch(query, mode string, resultsCount int) {
	if s.store == nil {
		return
	}
	_ = s.store.RecordSearch(storage.SearchRecord{
		SearchID:     uuid.NewString(),
		QueryHash:    storage.HashQuery(query),
		Mode:         mode,
		Timestamp:    time.Now(),
		ResultsCount: resultsCount,
	})
}

// recordCall appends a call record for this server session.
func (s *Server) recordCall(toolName string) {
	if s.store == nil {
		return
	}
	_ = s.store.RecordCall(trace.CallRecord{
		SessionID: s.sessionID,
		ToolName:  toolName,
		Timestamp: time.Now(),
	})
}

// Registry exposes the underlying catalog, mainly for tests.
func (s *Server) Registry() *registry.Registry {
	return s.engine.Registry()
}
