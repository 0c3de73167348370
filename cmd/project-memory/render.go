package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/HendryAvila/project-memory-mcp/internal/logging"
	pmserver "github.com/HendryAvila/project-memory-mcp/internal/server"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "render <tool>",
		Short: "Print the prompt a tool returns for a project",
		Long: `Print exactly what the named tool returns for the project in --root,
including project overrides and injected placeholders. Length warnings
go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(root)
			if err != nil {
				return err
			}
			logger, err := logging.New("warn")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			core, err := pmserver.NewCore(root, logger)
			if err != nil {
				return err
			}

			res := core.Dispatcher.Handle(cmd.Context(), args[0])
			if res.IsError {
				return errors.New(res.Content)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Content)
			return err
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Project root (default: current directory)")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List tools and the templates behind them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := pmserver.NewCore("", nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOOL\tTEMPLATE\tOVERRIDABLE")
			for _, r := range core.Dispatcher.Routes() {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", r.Tool, r.Template, r.UsesOverride)
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", pmserver.Name, pmserver.Version)
		},
	}
}
