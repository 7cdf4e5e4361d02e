package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/workspace"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				dir = "."
			}
			cfg, err := loadConfig(dir)
			if err != nil {
				return err
			}
			server := workspace.NewLSPServer(version, cfg)
			return server.RunStdio()
		},
	}
}
