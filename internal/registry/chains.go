package registry

import (
	"fmt"
	"sort"
)

// ChainStep is one step of a multi-step workflow chain.
type ChainStep struct {
	// Tool is the registered capability invoked at this step.
	Tool string `json:"tool"`

	// Note is optional operator guidance for the step.
	Note string `json:"note,omitempty"`
}

// WorkflowChain is a named sequence of tool invocations that accomplishes a
// recurring multi-step task (e.g. "ship_feature": plan, implement, verify).
type WorkflowChain struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Steps       []ChainStep `json:"steps"`
}

// AddChain registers a workflow chain. Every step must reference a tool that
// is already registered; a dangling step is a configuration error.
func (r *Registry) AddChain(chain WorkflowChain) error {
	if chain.Name == "" {
		return fmt.Errorf("workflow chain missing name")
	}
	if len(chain.Steps) == 0 {
		return fmt.Errorf("workflow chain %s: no steps", chain.Name)
	}
	if _, exists := r.chains[chain.Name]; exists {
		return fmt.Errorf("duplicate workflow chain: %s", chain.Name)
	}

	for i, step := range chain.Steps {
		if _, ok := r.entries[step.Tool]; !ok {
			return fmt.Errorf("workflow chain %s: step %d references unknown tool %q", chain.Name, i+1, step.Tool)
		}
	}

	stored := chain
	r.chains[chain.Name] = &stored
	return nil
}

// Chain returns a workflow chain by name, or nil if not registered.
func (r *Registry) Chain(name string) *WorkflowChain {
	return r.chains[name]
}

// Chains returns all workflow chains sorted by name.
func (r *Registry) Chains() []*WorkflowChain {
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}

	sort.Strings(names)

	chains := make([]*WorkflowChain, 0, len(names))
	for _, name := range names {
		chains = append(chains, r.chains[name])
	}
	return chains
}
