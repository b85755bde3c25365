/*
Package main is the entry point for the tool-scout-mcp CLI.

tool-scout-mcp is a tool-discovery MCP server: given a natural-language query
over a catalog of callable capabilities, it returns a ranked, explainable
shortlist instead of forcing the client to carry every tool definition.

Usage:
  tool-scout-mcp [command]

Available Commands:
  serve       Run the MCP server (stdio transport)
  search      Run a one-shot discovery query
  eval        Run the offline evaluation harness
  version     Show version information
  help        Help about any command

Examples:
  # Run as MCP server
  tool-scout-mcp serve --catalog ./catalog.json

  # One-shot query with explanations
  tool-scout-mcp search "verify the current work" --explain
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolscout/tool-scout-mcp/internal/cli"
	"github.com/toolscout/tool-scout-mcp/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tool-scout-mcp",
		Short: "Tool discovery and ranking for agent-facing tool servers",
		Long: `tool-scout-mcp ranks a catalog of callable capabilities against
natural-language queries so AI clients discover the right tool without
carrying every tool definition in context.

It exposes 4 discovery meta-tools over stdio:
  • scout_search   - Ranked, explainable tool discovery
  • scout_quickref - Next-action guidance for a specific tool
  • scout_chains   - Registered multi-step workflow chains
  • scout_stats    - Catalog and index statistics

Ranking combines a lexical strategy ensemble, rank-fused embeddings, and a
booster mined from historical execution traces.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewEvalCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
