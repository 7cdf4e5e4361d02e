package hsdoc

import (
	"strings"

	"github.com/dhamidi/hsdoc/combinator"
	"github.com/dhamidi/hsdoc/lines"
)

// The two doc-comment markers. The marker is exactly three characters; a
// fourth identical character is ordinary content.
const (
	DashesPrefix  = "---"
	SlashesPrefix = "///"
)

type (
	textParser[O any] = combinator.Parser[combinator.Text, O]
	lineParser[O any] = combinator.Parser[lines.Lines, O]
)

// splitPrefix strips the doc-comment marker and at most one following space.
// offset is the byte length of what was stripped.
func splitPrefix(text string) (content string, offset int, ok bool) {
	if !strings.HasPrefix(text, DashesPrefix) && !strings.HasPrefix(text, SlashesPrefix) {
		return "", 0, false
	}
	offset = len(DashesPrefix)
	if strings.HasPrefix(text[offset:], " ") {
		offset++
	}
	return text[offset:], offset, true
}

// IsDocLine reports whether text starts with a doc-comment marker.
func IsDocLine(text string) bool {
	_, _, ok := splitPrefix(text)
	return ok
}

// DocLine consumes exactly one doc-comment line and runs inner over the text
// after its prefix. inner must consume the whole line except for trailing
// whitespace. On failure no line is consumed.
func DocLine[O any](inner textParser[O]) lineParser[O] {
	return func(in lines.Lines) (O, lines.Lines, error) {
		var zero O
		line, ok := in.First()
		if !ok {
			return zero, in, combinator.Expected(in.Position(), "doc comment line")
		}
		content, offset, ok := splitPrefix(line.Text)
		if !ok {
			return zero, in, combinator.Expected(in.Position(), "doc comment prefix")
		}
		text := combinator.NewText(content, combinator.Position{Line: line.Number, Column: offset + 1})
		out, rest, err := inner(text)
		if err != nil {
			return zero, in, err
		}
		if strings.TrimSpace(rest.Remaining()) != "" {
			return zero, in, combinator.Expected(rest.Position(), "end of line")
		}
		return out, in.Drop(1), nil
	}
}

// NonDocLine consumes one line that is not a doc-comment line.
func NonDocLine() lineParser[lines.Line] {
	return func(in lines.Lines) (lines.Line, lines.Lines, error) {
		line, ok := in.First()
		if !ok {
			return lines.Line{}, in, combinator.Expected(in.Position(), "source line")
		}
		if IsDocLine(line.Text) {
			return lines.Line{}, in, combinator.Errorf(in.Position(), "unexpected doc comment line")
		}
		return line, in.Drop(1), nil
	}
}

// ScanNonDoc consumes a maximal run of non-doc lines and reports how many
// there were. It never fails.
func ScanNonDoc() lineParser[int] {
	return combinator.Map(combinator.Many(NonDocLine()), func(ls []lines.Line) int { return len(ls) })
}

// BlankDocLine consumes a doc-comment line with no content.
func BlankDocLine() lineParser[combinator.Unit] {
	return DocLine(combinator.Discard(combinator.Spaces()))
}

// endOfBlock matches, without consuming, the end of the input, a blank
// doc-comment line or a non-doc line.
func endOfBlock() lineParser[combinator.Unit] {
	return combinator.Peek(combinator.OneOf(
		combinator.EOF[lines.Lines](),
		BlankDocLine(),
		combinator.Discard(NonDocLine()),
	))
}

// textLine matches the non-blank content of a line, right-trimmed.
func textLine() textParser[string] {
	return combinator.Verify(
		combinator.Map(combinator.Rest(), func(s string) string { return strings.TrimRight(s, " \t") }),
		func(s string) error {
			if s == "" {
				return errExpectedText
			}
			return nil
		},
	)
}

// rawLine matches the rest of the line verbatim.
func rawLine() textParser[string] {
	return combinator.Rest()
}
