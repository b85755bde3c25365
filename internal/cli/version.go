package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toolscout/tool-scout-mcp/internal/version"
)

// NewVersionCmd creates the 'version' command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the current version, commit hash, and build date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Version:  %s\n", version.Version)
			fmt.Printf("Commit:   %s\n", version.Commit)
			fmt.Printf("Built:    %s\n", version.Date)
			return nil
		},
	}
}
