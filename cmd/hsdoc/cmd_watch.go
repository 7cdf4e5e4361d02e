package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/workspace"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Report documentation problems as files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws := workspace.New(root, cfg)
			if err := ws.ScanAll(ctx); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			for _, p := range ws.Registry().Problems() {
				fmt.Printf("%s: %s\n", p, p.Kind)
			}

			watcher, err := workspace.NewFileWatcher(ws, func(path string) {
				problems := ws.Diagnostics(path)
				if len(problems) == 0 {
					fmt.Printf("%s: ok\n", path)
					return
				}
				for _, p := range problems {
					fmt.Printf("%s: %s\n", p, p.Kind)
				}
			})
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			return watcher.Run(ctx)
		},
	}
}
