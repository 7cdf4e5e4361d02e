// Package ebnflex matches input directly against the productions of an EBNF
// grammar, without generating a parser.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Position represents a location in the input.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a run of input matched by one production.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

type memoKey struct {
	name   string
	offset int
}

// Matcher computes, for a production and a start offset, every offset at
// which a match of that production can end. Unlike a greedy scanner it
// backtracks through repetitions, so "a { a } a" matches "aaa".
type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey][]int
	visiting map[memoKey]bool
}

// NewMatcher prepares g for matching against input.
func NewMatcher(g ebnf.Grammar, input []byte) *Matcher {
	return &Matcher{
		grammar:  g,
		input:    input,
		memo:     make(map[memoKey][]int),
		visiting: make(map[memoKey]bool),
	}
}

// Ends returns the sorted end offsets of every match of production that
// starts at offset.
func (m *Matcher) Ends(production string, offset int) []int {
	return m.name(production, offset)
}

// Match reports whether the whole input matches production.
func Match(g ebnf.Grammar, production string, input []byte) bool {
	for _, end := range NewMatcher(g, input).Ends(production, 0) {
		if end == len(input) {
			return true
		}
	}
	return false
}

// Longest returns the length of the longest prefix of input matched by
// production, or -1.
func Longest(g ebnf.Grammar, production string, input []byte) int {
	ends := NewMatcher(g, input).Ends(production, 0)
	if len(ends) == 0 {
		return -1
	}
	return ends[len(ends)-1]
}

func (m *Matcher) name(name string, offset int) []int {
	key := memoKey{name: name, offset: offset}
	if ends, ok := m.memo[key]; ok {
		return ends
	}
	// Left recursion: the inner visit contributes nothing.
	if m.visiting[key] {
		return nil
	}
	prod, ok := m.grammar[name]
	if !ok || prod.Expr == nil {
		m.memo[key] = nil
		return nil
	}

	m.visiting[key] = true
	ends := m.expr(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = ends
	return ends
}

func (m *Matcher) expr(expr ebnf.Expression, offset int) []int {
	switch e := expr.(type) {
	case nil:
		return []int{offset}

	case *ebnf.Token:
		if strings.HasPrefix(string(m.input[offset:]), e.String) {
			return []int{offset + len(e.String)}
		}
		return nil

	case *ebnf.Range:
		if offset >= len(m.input) || len(e.Begin.String) != 1 || len(e.End.String) != 1 {
			return nil
		}
		ch := m.input[offset]
		if ch >= e.Begin.String[0] && ch <= e.End.String[0] {
			return []int{offset + 1}
		}
		return nil

	case ebnf.Sequence:
		current := []int{offset}
		for _, item := range e {
			var next []int
			for _, pos := range current {
				next = append(next, m.expr(item, pos)...)
			}
			current = normalize(next)
			if len(current) == 0 {
				return nil
			}
		}
		return current

	case ebnf.Alternative:
		var ends []int
		for _, alt := range e {
			ends = append(ends, m.expr(alt, offset)...)
		}
		return normalize(ends)

	case *ebnf.Repetition:
		seen := map[int]bool{offset: true}
		frontier := []int{offset}
		for len(frontier) > 0 {
			var next []int
			for _, pos := range frontier {
				for _, end := range m.expr(e.Body, pos) {
					if !seen[end] {
						seen[end] = true
						next = append(next, end)
					}
				}
			}
			frontier = next
		}
		ends := make([]int, 0, len(seen))
		for end := range seen {
			ends = append(ends, end)
		}
		return normalize(ends)

	case *ebnf.Option:
		return normalize(append([]int{offset}, m.expr(e.Body, offset)...))

	case *ebnf.Group:
		return m.expr(e.Body, offset)

	case *ebnf.Name:
		return m.name(e.String, offset)
	}
	return nil
}

func normalize(ends []int) []int {
	if len(ends) < 2 {
		return ends
	}
	sort.Ints(ends)
	out := ends[:1]
	for _, end := range ends[1:] {
		if end != out[len(out)-1] {
			out = append(out, end)
		}
	}
	return out
}

// Lexer splits input into tokens using a fixed set of productions, taking
// the longest match at each step.
type Lexer struct {
	matcher  *Matcher
	kinds    []string
	input    []byte
	filename string
	pos      int
	line     int
	column   int
}

// NewLexer creates a lexer that recognises the given productions.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string, kinds ...string) *Lexer {
	return &Lexer{
		matcher:  NewMatcher(grammar, input),
		kinds:    kinds,
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// NextToken returns the next token. Input no production matches comes back
// one byte at a time as ERROR tokens. At the end of input it returns an EOF
// token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: "EOF", Position: l.Position()}, io.EOF
	}

	start := l.Position()
	bestKind, bestLen := "", 0
	for _, kind := range l.kinds {
		ends := l.matcher.Ends(kind, l.pos)
		if len(ends) == 0 {
			continue
		}
		if n := ends[len(ends)-1] - l.pos; n > bestLen {
			bestKind, bestLen = kind, n
		}
	}

	if bestLen == 0 {
		literal := string(l.input[l.pos])
		l.advance()
		return Token{Kind: "ERROR", Literal: literal, Position: start}, nil
	}

	literal := string(l.input[l.pos : l.pos+bestLen])
	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return Token{Kind: bestKind, Literal: literal, Position: start}, nil
}

// Tokenize reads all tokens from input, ending with the EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
	}
}
