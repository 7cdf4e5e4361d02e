package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

type MarkdownEncoder struct {
	w   io.Writer
	reg *registry.Registry
}

func NewMarkdownEncoder(w io.Writer) *MarkdownEncoder {
	return &MarkdownEncoder{w: w}
}

func (e *MarkdownEncoder) Encode(reg *registry.Registry) error {
	e.reg = reg
	return write(e.w, e)
}

func (e *MarkdownEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for i, m := range e.reg.Modules() {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeModule(&sb, m)
	}

	if problems := e.reg.Problems(); len(problems) > 0 {
		sb.WriteString("\n# Problems\n\n")
		for _, p := range problems {
			fmt.Fprintf(&sb, "- `%s:%d` %s\n", p.File, p.Line, p.Message)
		}
	}
	return []byte(sb.String()), nil
}

// ModuleMarkdown renders one module and its items.
func ModuleMarkdown(m registry.Module) string {
	var sb strings.Builder
	writeModule(&sb, m)
	return sb.String()
}

func writeModule(sb *strings.Builder, m registry.Module) {
	name := m.Name
	if name == registry.Global {
		name = "Globals"
	}
	fmt.Fprintf(sb, "# %s\n", name)
	for _, p := range m.Details {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(p, "\n"))
		sb.WriteString("\n")
	}
	for _, e := range m.Items {
		sb.WriteString("\n")
		writeItem(sb, e.Item, "##")
	}
}

// Markdown renders a single documentation block, as shown on hover.
func Markdown(doc hsdoc.Doc) string {
	var sb strings.Builder
	switch v := doc.(type) {
	case hsdoc.Module:
		fmt.Fprintf(&sb, "# %s\n", v.Name)
		for _, p := range v.Details {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(p, "\n"))
			sb.WriteString("\n")
		}
	case hsdoc.Item:
		writeItem(&sb, v, "###")
	case hsdoc.Unrecognised:
		sb.WriteString("Unrecognised documentation block\n")
	case hsdoc.ParseError:
		fmt.Fprintf(&sb, "Documentation error: %s\n", v.Err)
	}
	return sb.String()
}

func writeItem(sb *strings.Builder, it hsdoc.Item, heading string) {
	fmt.Fprintf(sb, "%s `%s`\n\n", heading, hsdoc.SignatureString(it))
	if it.IsDeprecated() {
		fmt.Fprintf(sb, "*%s, deprecated*\n\n", it.Kind())
	} else {
		fmt.Fprintf(sb, "*%s*\n\n", it.Kind())
	}
	sb.WriteString(strings.Join(it.DescriptionLines(), "\n"))
	sb.WriteString("\n")

	if c, ok := it.(hsdoc.Callable); ok {
		writeSection(sb, "Parameters", c.ParametersSection().Items)
		writeSection(sb, "Returns", c.ReturnsSection().Items)
	}
	if notes := it.NotesSection(); notes != nil {
		writeSection(sb, "Notes", notes.Items)
	}
}

func writeSection(sb *strings.Builder, title string, items hsdoc.BulletList) {
	fmt.Fprintf(sb, "\n**%s**\n\n", title)
	writeBullets(sb, items, "")
}

func writeBullets(sb *strings.Builder, items hsdoc.BulletList, indent string) {
	for _, b := range items {
		fmt.Fprintf(sb, "%s- %s\n", indent, strings.Join(b.Lines, " "))
		writeBullets(sb, b.Children, indent+"  ")
	}
}
