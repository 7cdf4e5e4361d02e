package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

// LineEncoder writes one tab-separated record per module, item and problem.
type LineEncoder struct {
	w   io.Writer
	reg *registry.Registry
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(reg *registry.Registry) error {
	e.reg = reg
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder

	for _, m := range e.reg.Modules() {
		fmt.Fprintf(&sb, "module\t%s\t%s\t%d\n", m.Name, location(m.File, m.Line), len(m.Items))
		for _, entry := range m.Items {
			it := entry.Item
			fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n",
				strings.ToLower(it.Kind().String()),
				entry.QualifiedName(),
				hsdoc.SignatureString(it),
				location(entry.File, entry.Line),
				modifiersStr(it),
			)
		}
	}

	for _, p := range e.reg.Problems() {
		fmt.Fprintf(&sb, "problem\t%s\t%s\t%s\n", p.Kind, location(p.File, p.Line), p.Message)
	}

	return []byte(sb.String()), nil
}

func location(file string, line int) string {
	if file == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func modifiersStr(it hsdoc.Item) string {
	var mods []string
	if it.IsDeprecated() {
		mods = append(mods, "deprecated")
	}
	if it.NotesSection() != nil {
		mods = append(mods, "notes")
	}
	return strings.Join(mods, ",")
}
