package hsdoc

import (
	"bytes"
	_ "embed"
	"fmt"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/hsdoc/ebnflex"
)

// GrammarStart is the start production of the embedded grammar.
const GrammarStart = "DocBlock"

//go:embed grammar.ebnf
var grammarSource []byte

// TokenKinds are the lexical productions Tokens uses by default. On equal
// length the earlier kind wins, so "char" only covers single punctuation.
var TokenKinds = []string{"prefix", "modulename", "spaces", "newline", "char"}

// GrammarSource returns the EBNF description of doc-comment blocks.
func GrammarSource() string {
	return string(grammarSource)
}

// Grammar parses and verifies the EBNF description of doc-comment blocks.
// It describes the layout Format produces; Parse accepts the same language.
func Grammar() (ebnf.Grammar, error) {
	g, err := ebnf.Parse("grammar.ebnf", bytes.NewReader(grammarSource))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, GrammarStart); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Tokens splits input into tokens of the given lexical productions of the
// embedded grammar, or of TokenKinds when none are given. Bytes no kind
// matches come back as ERROR tokens.
func Tokens(input []byte, filename string, kinds ...string) ([]ebnflex.Token, error) {
	g, err := Grammar()
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = TokenKinds
	}
	for _, kind := range kinds {
		if _, ok := g[kind]; !ok {
			return nil, fmt.Errorf("unknown production %q", kind)
		}
	}
	return ebnflex.NewLexer(g, input, filename, kinds...).Tokenize()
}

// TokenAt returns the token covering the byte offset, or the final EOF
// token when offset is at or past the end of the input.
func TokenAt(tokens []ebnflex.Token, offset int) (ebnflex.Token, bool) {
	for _, tok := range tokens {
		start := tok.Position.Offset
		if tok.Kind == "EOF" && offset >= start {
			return tok, true
		}
		if offset >= start && offset < start+len(tok.Literal) {
			return tok, true
		}
	}
	return ebnflex.Token{}, false
}
