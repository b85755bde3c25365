/*
Package cli implements the tool-scout-mcp commands.

All commands share the same bootstrap: load configuration, load the catalog
into a registry, build the engine, and optionally attach storage-backed
collaborators (cached embeddings, trace miner).
*/
package cli

import (
	"fmt"
	"log"

	"github.com/toolscout/tool-scout-mcp/internal/config"
	"github.com/toolscout/tool-scout-mcp/internal/embedding"
	"github.com/toolscout/tool-scout-mcp/internal/registry"
	"github.com/toolscout/tool-scout-mcp/internal/search"
	"github.com/toolscout/tool-scout-mcp/internal/storage"
	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

// bootstrapOptions are the shared command-line overrides.
type bootstrapOptions struct {
	configPath  string
	catalogPath string
	dbPath      string
}

// loadConfig reads the configuration, honoring an explicit --config path.
func loadConfig(opts bootstrapOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFrom(opts.configPath)
	}
	return config.LoadOrDefault()
}

// buildEngine loads the catalog and constructs the ranking engine.
func buildEngine(cfg *config.Config, opts bootstrapOptions) (*search.Engine, error) {
	catalogPath := opts.catalogPath
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}
	if catalogPath == "" {
		return nil, fmt.Errorf("no catalog configured: pass --catalog or set catalogPath in the config file")
	}

	reg, err := registry.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return search.NewEngine(reg, cfg.Search), nil
}

// openStorage creates and initializes storage. Initialization failures
// disable storage rather than failing the command.
func openStorage(cfg *config.Config, opts bootstrapOptions) *storage.SQLiteStorage {
	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	var store *storage.SQLiteStorage
	if dbPath != "" {
		store = storage.NewStorageAt(dbPath)
	} else {
		store = storage.NewStorage()
	}

	if err := store.Init(); err != nil {
		log.Printf("Warning: storage disabled: %v", err)
	}
	return store
}

// attachCollaborators loads cached embeddings into the engine's index and
// wires a refreshed trace miner. Both are optional: failures degrade to
// lexical-only ranking.
func attachCollaborators(engine *search.Engine, store storage.Storage, cfg *config.Config) {
	cached, err := store.ListEmbeddings()
	if err != nil {
		log.Printf("Warning: failed to load cached embeddings: %v", err)
	} else if len(cached) > 0 {
		entries := make([]embedding.IndexEntry, 0, len(cached))
		for _, stored := range cached {
			entries = append(entries, embedding.IndexEntry{
				Name:     stored.Name,
				Vector:   stored.Vector,
				NodeType: embedding.NodeType(stored.NodeType),
			})
		}
		engine.EmbeddingIndex().Load(entries)
		log.Printf("Loaded %d cached embedding nodes", len(entries))
	}

	miner := trace.NewMiner(store, cfg.Search.Trace)
	if err := miner.Refresh(); err != nil {
		log.Printf("Warning: trace mining skipped: %v", err)
	}
	engine.UseTraceMiner(miner)
}
