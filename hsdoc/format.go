package hsdoc

import (
	"fmt"
	"strings"
)

// Dialect selects the doc-comment marker used when rendering.
type Dialect int

const (
	Dashes  Dialect = iota // "---", as in Lua
	Slashes                // "///", as in Objective-C
)

// Prefix returns the marker of the dialect.
func (d Dialect) Prefix() string {
	if d == Slashes {
		return SlashesPrefix
	}
	return DashesPrefix
}

func (d Dialect) String() string {
	if d == Slashes {
		return "slashes"
	}
	return "dashes"
}

// ParseDialect accepts "dashes" / "---" and "slashes" / "///".
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "dashes", DashesPrefix, "lua":
		return Dashes, nil
	case "slashes", SlashesPrefix, "objc":
		return Slashes, nil
	}
	return Dashes, fmt.Errorf("%w: %q", ErrUnknownDialect, s)
}

// Format renders doc as doc-comment text in dialect d, without a trailing
// newline.
func Format(doc Doc, d Dialect) string {
	return strings.Join(FormatLines(doc, d), "\n")
}

// FormatLines renders doc as doc-comment lines in dialect d. Parsing the
// result yields doc again.
func FormatLines(doc Doc, d Dialect) []string {
	w := &writer{prefix: d.Prefix()}
	switch v := doc.(type) {
	case Module:
		w.line("=== " + v.Name.String() + " ===")
		w.blank()
		for i, paragraph := range v.Details {
			if i > 0 {
				w.blank()
			}
			w.lines(paragraph)
		}
	case Unrecognised:
		w.lines(v.Lines)
	case ParseError:
		w.lines(v.Lines)
	case Item:
		w.item(v)
	}
	return w.out
}

type writer struct {
	prefix string
	out    []string
}

func (w *writer) line(s string) {
	if s == "" {
		w.blank()
		return
	}
	w.out = append(w.out, w.prefix+" "+s)
}

func (w *writer) blank() {
	w.out = append(w.out, w.prefix)
}

func (w *writer) lines(ls []string) {
	for _, l := range ls {
		w.line(l)
	}
}

func (w *writer) item(it Item) {
	w.line(SignatureString(it))
	if it.IsDeprecated() {
		w.line("Deprecated")
	} else {
		w.line(it.Kind().String())
	}
	w.lines(it.DescriptionLines())
	if c, ok := it.(Callable); ok {
		w.section("Parameters:", c.ParametersSection().Items)
		w.section("Returns:", c.ReturnsSection().Items)
	}
	if notes := it.NotesSection(); notes != nil {
		w.section("Notes:", notes.Items)
	}
}

func (w *writer) section(heading string, items BulletList) {
	w.blank()
	w.line(heading)
	w.bullets(items, "")
}

// bullets renders items at indent. A bullet's text starts three columns
// after its indent (" * "); continuation lines and children are indented to
// that column.
func (w *writer) bullets(items BulletList, indent string) {
	for _, item := range items {
		deeper := indent + "   "
		for i, l := range item.Lines {
			if i == 0 {
				w.line(indent + " * " + l)
			} else {
				w.line(deeper + l)
			}
		}
		w.bullets(item.Children, deeper)
	}
}

// SignatureString renders the signature line of it.
func SignatureString(it Item) string {
	switch v := it.(type) {
	case Constant:
		return v.Signature.String()
	case Constructor:
		return v.Signature.String()
	case Field:
		return v.Signature.String()
	case Function:
		return v.Signature.String()
	case Method:
		return v.Signature.String()
	case Variable:
		return v.Signature.String()
	}
	return ""
}

func (s ConstantSignature) String() string {
	return s.Module.String() + "." + string(s.Name)
}

func (s ConstructorSignature) String() string {
	return callableString(s.Module, ".", s.Name, s.Parameters, s.Returns)
}

func (s FunctionSignature) String() string {
	return callableString(s.Module, ".", s.Name, s.Parameters, s.Returns)
}

func (s MethodSignature) String() string {
	return callableString(s.Module, ":", s.Name, s.Parameters, s.Returns)
}

func (s FieldSignature) String() string {
	return valueString(s.Module, s.Name, s.Type)
}

func (s VariableSignature) String() string {
	return valueString(s.Module, s.Name, s.Type)
}

func (p ParameterSignature) String() string {
	if p.IsOptional {
		return "[" + string(p.Name) + "]"
	}
	return string(p.Name)
}

func callableString(module ModulePath, sep string, name Identifier, params []ParameterSignature, returns []ReturnSignature) string {
	var sb strings.Builder
	if len(module) > 0 {
		sb.WriteString(module.String())
		sb.WriteString(sep)
	}
	sb.WriteString(string(name))
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if returns != nil {
		sb.WriteString(" ->")
		for i, r := range returns {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			sb.WriteString(string(r))
		}
	}
	return sb.String()
}

func valueString(module ModulePath, name Identifier, typ string) string {
	s := string(name)
	if len(module) > 0 {
		s = module.String() + "." + s
	}
	if typ != "" {
		s += " " + typ
	}
	return s
}
