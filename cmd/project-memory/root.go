package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "project-memory",
		Short: "MCP server of project memory workflow prompts",
		Long: `project-memory serves workflow prompts over MCP.

Commands:
  project-memory serve       Run the MCP server (stdio or SSE)
  project-memory render      Print the prompt a tool returns for a project
  project-memory templates   List tools and the templates behind them`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newRenderCmd(),
		newTemplatesCmd(),
		newVersionCmd(),
	)
	return root
}
