package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hsdoc/ebnflex"
	"github.com/dhamidi/hsdoc/hsdoc"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the EBNF grammar of documentation blocks",
	}

	cmd.AddCommand(newGrammarPrintCmd())
	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarMatchCmd())
	cmd.AddCommand(newGrammarTokensCmd())

	return cmd
}

func newGrammarPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(os.Stdout, hsdoc.GrammarSource())
			return err
		},
	}
}

func newGrammarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse and verify the grammar, then list its productions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := hsdoc.Grammar()
			if err != nil {
				printErrors(os.Stderr, err)
				return err
			}
			names := make([]string, 0, len(g))
			for name := range g {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newGrammarMatchCmd() *cobra.Command {
	var production string

	cmd := &cobra.Command{
		Use:   "match [file]",
		Short: "Match a file (or stdin) against a production",
		Long: `Match the whole input against a production of the grammar. When it does
not match, report the length of the longest matching prefix and the token
where matching stopped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, filename, err := readInput(args)
			if err != nil {
				return err
			}
			if err := matchInput(production, input, filename); err != nil {
				return err
			}
			fmt.Printf("%s: match\n", production)
			return nil
		},
	}

	cmd.Flags().StringVarP(&production, "production", "p", hsdoc.GrammarStart, "production to match")

	return cmd
}

func newGrammarTokensCmd() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Split a file (or stdin) into lexical tokens of the grammar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, filename, err := readInput(args)
			if err != nil {
				return err
			}
			tokens, err := hsdoc.Tokens(input, filename, kinds...)
			if err != nil {
				return err
			}
			for _, tok := range tokens {
				fmt.Println(tok)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil,
		"lexical productions to split into (default "+strings.Join(hsdoc.TokenKinds, ",")+")")

	return cmd
}

func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read input: %w", err)
		}
		return input, "", nil
	}
	input, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return input, args[0], nil
}

// matchInput matches the whole input against production. On failure the
// error names the token at the end of the longest matching prefix.
func matchInput(production string, input []byte, filename string) error {
	g, err := hsdoc.Grammar()
	if err != nil {
		return err
	}
	if _, ok := g[production]; !ok {
		return fmt.Errorf("unknown production %q", production)
	}
	if ebnflex.Match(g, production, input) {
		return nil
	}

	n := ebnflex.Longest(g, production, input)
	msg := fmt.Sprintf("%s: only the first %d of %d bytes match", production, n, len(input))
	if n < 0 {
		n, msg = 0, production+": no match"
	}
	if tokens, err := hsdoc.Tokens(input, filename); err == nil {
		if tok, ok := hsdoc.TokenAt(tokens, n); ok {
			msg += fmt.Sprintf(", stopped at %s", tok)
		}
	}
	return errors.New(msg)
}

// printErrors prints each error of a grammar error list on its own line.
// The list sits somewhere in err's chain.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if v := reflect.ValueOf(e); v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
