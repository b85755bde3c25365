package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Catalog is the on-disk declaration format consumed at startup. Each
// domain-tool module contributes its entries; chains are validated after all
// tools are registered so forward references within the file work.
type Catalog struct {
	Tools  []ToolEntry     `json:"tools"`
	Chains []WorkflowChain `json:"chains,omitempty"`
}

// LoadCatalog reads a catalog file and builds a registry from it.
func LoadCatalog(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return Build(catalog)
}

// Build constructs a registry from in-memory declarations, failing fast on
// the first invalid entry or chain.
func Build(catalog Catalog) (*Registry, error) {
	reg := New()

	for _, entry := range catalog.Tools {
		if err := reg.Register(entry); err != nil {
			return nil, err
		}
	}

	for _, chain := range catalog.Chains {
		if err := reg.AddChain(chain); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
