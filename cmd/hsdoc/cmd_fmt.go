package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/hsdoc"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var dialectName string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Normalise the documentation blocks of a file",
		Long: `Rewrite every recognised documentation block of a file in canonical
form, leaving code and unrecognised blocks untouched apart from their
comment prefix.

If no file is provided, reads source from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			if dialectName == "" {
				cfg, err := loadConfig(filepath.Dir(filename))
				if err != nil {
					return err
				}
				dialectName = cfg.Dialect
			}
			dialect, err := hsdoc.ParseDialect(dialectName)
			if err != nil {
				return err
			}

			output := hsdoc.Reformat(string(source), dialect)

			if fmtOverwrite {
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = io.WriteString(os.Stdout, output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().StringVar(&dialectName, "dialect", "", "comment prefix to write: dashes (---) or slashes (///)")

	return cmd
}
