package cmd

import (
	"github.com/huangsam/scoretools/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the scoretools MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents bin variables and
build frequency, bivariate and KS tables via standard tools.

Tools:
  cut_variable     - bin one column and count records per category
  frequency_table  - frequency tables for one or more columns
  bivariate_table  - performance rates over the bins of columns
  gains_ks         - KS ranking and gains curves for score/performance pairs`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
