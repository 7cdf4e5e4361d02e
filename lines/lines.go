// Package lines splits source text into numbered lines and exposes cheap,
// value-typed windows over them.
package lines

import (
	"strings"

	"github.com/dhamidi/hsdoc/combinator"
)

// Line is one line of source text without its line terminator.
type Line struct {
	Number int // 1-based unless the sequence was created with another first line
	Text   string
}

// Lines is a window over an ordered sequence of lines. Copying a Lines value
// copies only the window, never the underlying text, so slicing is O(1).
type Lines struct {
	items []Line
	end   int // number of the line following the window
}

// FromText splits text on '\n', keeping empty lines (including the empty
// line after a trailing newline). A trailing '\r' is removed from every line.
// The first line is numbered first; values below 1 are treated as 1.
func FromText(text string, first int) Lines {
	if first < 1 {
		first = 1
	}
	parts := strings.Split(text, "\n")
	items := make([]Line, len(parts))
	for i, part := range parts {
		items[i] = Line{Number: first + i, Text: strings.TrimSuffix(part, "\r")}
	}
	return Lines{items: items, end: first + len(items)}
}

// Of builds a sequence from explicit lines. The lines are assumed to be
// consecutive.
func Of(ls ...Line) Lines {
	end := 1
	if len(ls) > 0 {
		end = ls[len(ls)-1].Number + 1
	}
	return Lines{items: ls, end: end}
}

// Len returns the number of lines in the window.
func (l Lines) Len() int {
	return len(l.items)
}

// Empty reports whether no lines remain.
func (l Lines) Empty() bool {
	return len(l.items) == 0
}

// Position returns the position of the first line, or the position just past
// the last line for an empty window.
func (l Lines) Position() combinator.Position {
	if len(l.items) == 0 {
		return combinator.Position{Line: l.end, Column: 1}
	}
	return combinator.Position{Line: l.items[0].Number, Column: 1}
}

// First returns the first line of the window.
func (l Lines) First() (Line, bool) {
	if len(l.items) == 0 {
		return Line{}, false
	}
	return l.items[0], true
}

// At returns the i-th line of the window. It panics if i is out of range.
func (l Lines) At(i int) Line {
	return l.items[i]
}

// Drop returns the window without its first n lines.
func (l Lines) Drop(n int) Lines {
	if n >= len(l.items) {
		return Lines{end: l.end}
	}
	return Lines{items: l.items[n:], end: l.end}
}

// Slice returns the sub-window [i, j).
func (l Lines) Slice(i, j int) Lines {
	end := l.end
	if j < len(l.items) {
		end = l.items[j].Number
	}
	return Lines{items: l.items[i:j], end: end}
}

// Texts returns the text of every line in the window.
func (l Lines) Texts() []string {
	out := make([]string, len(l.items))
	for i, line := range l.items {
		out[i] = line.Text
	}
	return out
}
