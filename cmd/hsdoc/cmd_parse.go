package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/format"
	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var strict bool
	var firstLine int

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse the documentation blocks of one file and dump them",
		Long: `Parse the documentation blocks of one file.

The blocks format lists every block in source order, including the ones
that were not recognised. The other formats (json, yaml, markdown, text)
show the file's modules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			cfg, err := loadConfig(filepath.Dir(filename))
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			opts := []hsdoc.Option{hsdoc.WithFirstLine(firstLine)}
			if strict || cfg.Strict {
				opts = append(opts, hsdoc.WithStrict())
			}
			blocks := hsdoc.Parse(string(data), opts...)

			if outputFormat == "blocks" {
				if err := format.NewBlocksJSONEncoder(os.Stdout).Encode(filename, blocks); err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				return nil
			}

			encoder, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			reg := registry.New()
			reg.Add(filename, blocks)
			if err := encoder.Encode(reg); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "blocks", "output format (blocks, json, yaml, markdown, text)")
	cmd.Flags().BoolVar(&strict, "strict", false, "report unrecognised blocks as parse errors")
	cmd.Flags().IntVar(&firstLine, "first-line", 1, "number of the first line of the file")

	return cmd
}
