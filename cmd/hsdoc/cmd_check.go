package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/workspace"
)

func newCheckCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Report documentation problems below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if strict {
				cfg.Strict = true
			}

			ws := workspace.New(root, cfg)
			if err := ws.ScanAll(cmd.Context()); err != nil {
				return fmt.Errorf("scan: %w", err)
			}

			problems := ws.Registry().Problems()
			for _, p := range problems {
				fmt.Fprintf(os.Stdout, "%s: %s\n", p, p.Kind)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d documentation problems", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "report unrecognised blocks as parse errors")

	return cmd
}
