/*
Package registry maintains the catalog of callable capabilities.

The catalog maps each capability name to its metadata (category, lifecycle
phase, complexity tier, tags, quick-reference guidance). It is populated once
at startup from declarations owned by the individual domain-tool modules and
is immutable afterward; the search engine ranks against a Registry handle
rather than a process-wide global, so tests and ablation harnesses can build
synthetic catalogs.
*/
package registry

import (
	"fmt"
	"strings"
)

// QuickRef holds next-action guidance for a capability.
type QuickRef struct {
	// NextAction describes what to do after calling this tool.
	NextAction string `json:"nextAction"`

	// NextTools lists related tool names to consider next. Must be non-empty:
	// an entry without follow-up guidance degrades every discovery response.
	NextTools []string `json:"nextTools"`
}

// ToolEntry is the catalog record for a single capability.
type ToolEntry struct {
	// Name is the unique capability key (e.g. "web_search").
	Name string `json:"name"`

	// Description is free text used by the lexical strategies.
	Description string `json:"description"`

	// Category groups tools into a domain (e.g. "research", "browser").
	Category string `json:"category"`

	// Phase is the lifecycle stage the tool belongs to (e.g. "research",
	// "verify", "ship").
	Phase string `json:"phase"`

	// Complexity is one of "low", "medium", "high".
	Complexity string `json:"complexity"`

	// Tags are free-form keywords that widen lexical matching.
	Tags []string `json:"tags,omitempty"`

	// QuickRef is the next-action guidance returned by quick-reference lookups.
	QuickRef QuickRef `json:"quickRef"`
}

// Registry is the immutable capability catalog. Build it once with Register
// calls at startup; concurrent reads need no locking after that.
type Registry struct {
	entries map[string]*ToolEntry
	order   []string
	pos     map[string]int
	chains  map[string]*WorkflowChain
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]*ToolEntry),
		pos:     make(map[string]int),
		chains:  make(map[string]*WorkflowChain),
	}
}

// Register adds a capability declaration to the catalog.
//
// Registration is the fail-fast boundary: a declaration missing a required
// field or colliding with an existing name returns an error instead of
// silently degrading future queries.
func (r *Registry) Register(entry ToolEntry) error {
	if err := validate(&entry); err != nil {
		return err
	}

	if _, exists := r.entries[entry.Name]; exists {
		return fmt.Errorf("duplicate tool registration: %s", entry.Name)
	}

	stored := entry
	r.entries[entry.Name] = &stored
	r.pos[entry.Name] = len(r.order)
	r.order = append(r.order, entry.Name)
	return nil
}

// validate checks the required declaration fields.
func validate(entry *ToolEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("tool declaration missing name")
	}
	if strings.TrimSpace(entry.Description) == "" {
		return fmt.Errorf("tool %s: missing description", entry.Name)
	}
	if strings.TrimSpace(entry.Category) == "" {
		return fmt.Errorf("tool %s: missing category", entry.Name)
	}
	if len(entry.QuickRef.NextTools) == 0 {
		return fmt.Errorf("tool %s: quickRef.nextTools must not be empty", entry.Name)
	}
	return nil
}

// Get returns the entry for a name, or nil if not registered.
func (r *Registry) Get(name string) *ToolEntry {
	return r.entries[name]
}

// Names returns all registered names in insertion order. The slice is a copy.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Entries returns all entries in insertion order.
func (r *Registry) Entries() []*ToolEntry {
	entries := make([]*ToolEntry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.entries[name])
	}
	return entries
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	return len(r.order)
}

// OrderIndex returns the insertion position of a name, used by the ranker to
// break score ties deterministically. Unknown names sort last.
func (r *Registry) OrderIndex(name string) int {
	if i, ok := r.pos[name]; ok {
		return i
	}
	return len(r.order)
}

// Categories returns the distinct categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, name := range r.order {
		category := r.entries[name].Category
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	return categories
}
