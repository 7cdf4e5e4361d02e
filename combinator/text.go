package combinator

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Text is an input over a single line of text. Columns are byte based.
type Text struct {
	src  string
	off  int
	line int
	col  int // column of src[0]
}

// NewText returns a Text over s whose first byte sits at start.
func NewText(s string, start Position) Text {
	return Text{src: s, line: start.Line, col: start.Column}
}

// Position returns the position of the next unconsumed byte.
func (t Text) Position() Position {
	return Position{Line: t.line, Column: t.col + t.off}
}

// Len returns the number of unconsumed bytes.
func (t Text) Len() int {
	return len(t.src) - t.off
}

// Remaining returns the unconsumed text.
func (t Text) Remaining() string {
	return t.src[t.off:]
}

// Advance consumes n bytes.
func (t Text) Advance(n int) Text {
	t.off += n
	if t.off > len(t.src) {
		t.off = len(t.src)
	}
	return t
}

// Literal matches s exactly.
func Literal(s string) Parser[Text, string] {
	return func(in Text) (string, Text, error) {
		if !strings.HasPrefix(in.Remaining(), s) {
			return "", in, Expected(in.Position(), strconv.Quote(s))
		}
		return s, in.Advance(len(s)), nil
	}
}

// Char matches a single rune satisfying pred.
func Char(pred func(rune) bool, what string) Parser[Text, rune] {
	return func(in Text) (rune, Text, error) {
		r, size := utf8.DecodeRuneInString(in.Remaining())
		if size == 0 || !pred(r) {
			return 0, in, Expected(in.Position(), what)
		}
		return r, in.Advance(size), nil
	}
}

// TakeWhile consumes the longest prefix whose runes satisfy pred. It never
// fails.
func TakeWhile(pred func(rune) bool) Parser[Text, string] {
	return func(in Text) (string, Text, error) {
		rem := in.Remaining()
		n := 0
		for n < len(rem) {
			r, size := utf8.DecodeRuneInString(rem[n:])
			if !pred(r) {
				break
			}
			n += size
		}
		return rem[:n], in.Advance(n), nil
	}
}

// TakeWhile1 is TakeWhile requiring at least one rune.
func TakeWhile1(pred func(rune) bool, what string) Parser[Text, string] {
	take := TakeWhile(pred)
	return func(in Text) (string, Text, error) {
		s, rest, _ := take(in)
		if s == "" {
			return "", in, Expected(in.Position(), what)
		}
		return s, rest, nil
	}
}

// Rest consumes everything that is left.
func Rest() Parser[Text, string] {
	return func(in Text) (string, Text, error) {
		return in.Remaining(), in.Advance(in.Len()), nil
	}
}

// End succeeds at the end of the text.
func End() Parser[Text, Unit] {
	return func(in Text) (Unit, Text, error) {
		if in.Len() != 0 {
			return Unit{}, in, Expected(in.Position(), "end of line")
		}
		return Unit{}, in, nil
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// Spaces consumes zero or more blanks (space or tab).
func Spaces() Parser[Text, string] {
	return TakeWhile(isSpace)
}

// Spaces1 consumes one or more blanks.
func Spaces1() Parser[Text, string] {
	return TakeWhile1(isSpace, "whitespace")
}

// Trim runs p and strips cutset from both ends of its output. Without a
// cutset, Unicode whitespace is stripped.
func Trim[I Input](p Parser[I, string], cutset ...string) Parser[I, string] {
	return Map(p, func(s string) string {
		if len(cutset) == 0 {
			return strings.TrimSpace(s)
		}
		return strings.Trim(s, strings.Join(cutset, ""))
	})
}
