package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toolscout/tool-scout-mcp/internal/mcp"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// This is the main command that exposes the 4 discovery meta-tools via stdio
// transport: scout_search, scout_quickref, scout_chains, scout_stats.
func NewServeCmd() *cobra.Command {
	var opts bootstrapOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the tool-scout-mcp server using stdio transport.

This server exposes 4 discovery meta-tools to AI clients:
  • scout_search   - Ranked, explainable tool discovery
  • scout_quickref - Next-action guidance for a specific tool
  • scout_chains   - Registered multi-step workflow chains
  • scout_stats    - Catalog and index statistics

Search analytics and quick-reference lookups feed the execution-trace
booster across restarts.`,
		Example: `  # Run directly
  tool-scout-mcp serve --catalog ./catalog.json

  # Add to Claude Code
  claude mcp add tool-scout -- tool-scout-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default ~/.tool-scout-mcp.json)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file path (overrides config)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Database path (overrides config)")

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
// Implements graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
func runServe(opts bootstrapOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	engine, err := buildEngine(cfg, opts)
	if err != nil {
		return err
	}
	log.Printf("Catalog loaded: %d tools", engine.Registry().Len())

	store := openStorage(cfg, opts)
	attachCollaborators(engine, store, cfg)

	server := mcp.NewServer(engine, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)

		if err := store.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}

		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// Server.Run() returned (stdin closed or error).
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("Error during cleanup: %v", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
