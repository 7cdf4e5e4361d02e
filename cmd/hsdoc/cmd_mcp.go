package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/mcpserver"
	"github.com/dhamidi/hsdoc/workspace"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [dir]",
		Short: "Serve the documentation below a directory over MCP on stdio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			ws := workspace.New(root, cfg)
			if err := ws.ScanAll(cmd.Context()); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			return mcpserver.New(ws, version).Serve(cmd.Context())
		},
	}
}
