package cmd

import (
	"github.com/huangsam/gamerank/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gamerank MCP server",
	Long: `Launch an MCP server over stdio so that AI agents can query rankings.

Tools:
  list_lists         - names of the lists under the root
  get_list_ranking   - ranking of one list
  get_global_ranking - ranking across every list
  get_list_sources   - the file selected for each source of a list

The tools compute rankings in memory; no file is written and no run is recorded.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
