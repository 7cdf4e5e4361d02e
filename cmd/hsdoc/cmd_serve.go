package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/ui"
	"github.com/dhamidi/hsdoc/workspace"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Browse the documentation below a directory in a web browser",
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

			server, err := ui.NewServer(ws)
			if err != nil {
				return err
			}
			fmt.Printf("Listening on http://%s\n", addr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")

	return cmd
}
