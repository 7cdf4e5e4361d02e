package hsdoc

import (
	"strings"

	"github.com/dhamidi/hsdoc/lines"
)

// Reformat rewrites every doc-comment block in text into dialect d.
// Recognised blocks are re-rendered in canonical layout; all other
// doc-comment lines keep their content and only switch marker. Non-doc lines
// are left untouched.
func Reformat(text string, d Dialect) string {
	ls := lines.FromText(text, 1)
	blocks := Parse(text)

	out := make([]string, 0, ls.Len())
	next := 0
	for i := 0; i < ls.Len(); i++ {
		line := ls.At(i)
		if next < len(blocks) && blocks[next].Line == line.Number {
			b := blocks[next]
			next++
			if isRecognised(b.Doc) {
				out = append(out, FormatLines(b.Doc, d)...)
				i += b.EndLine - b.Line
				continue
			}
		}
		out = append(out, switchPrefix(line.Text, d))
	}
	return strings.Join(out, "\n")
}

func isRecognised(doc Doc) bool {
	switch doc.(type) {
	case Unrecognised, ParseError:
		return false
	}
	return true
}

func switchPrefix(text string, d Dialect) string {
	if !IsDocLine(text) {
		return text
	}
	return d.Prefix() + text[len(DashesPrefix):]
}
