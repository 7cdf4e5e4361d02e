package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/format"
	"github.com/dhamidi/hsdoc/workspace"
)

func newModulesCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "modules [dir]",
		Short: "Collect the documented modules below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if outputFormat == "" {
				outputFormat = cfg.Format
			}
			encoder, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			ws := workspace.New(root, cfg)
			if err := ws.ScanAll(cmd.Context()); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			if err := encoder.Encode(ws.Registry()); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (json, yaml, markdown, text)")

	return cmd
}
