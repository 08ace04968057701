package cmd

import (
	"github.com/huangsam/devpick/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the devpick MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run picks via standard tools.

Tools:
  pick_buildings - choose buildings from feasibility and parcel tables
  units_to_build - compute the units needed at a target vacancy

Flags and config values become the defaults of every tool call.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
