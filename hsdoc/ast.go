// Package hsdoc parses structured documentation out of "---" and "///"
// doc-comment blocks and renders it back.
//
// A file is split into lines, and every contiguous run of doc-comment lines is
// matched against the known shapes: a module declaration
//
//	--- === hs.foo ===
//	---
//	--- Module description.
//
// or one of six item kinds (constant, constructor, field, function, method,
// variable):
//
//	--- hs.foo.bar(name, [flag]) -> string
//	--- Function
//	--- Does something.
//	---
//	--- Parameters:
//	---  * name - a string
//	---  * flag - optional boolean
//	---
//	--- Returns:
//	---  * The result
//
// Runs that match no shape are kept as Unrecognised blocks, so one malformed
// comment never hides the rest of a file.
package hsdoc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/hsdoc/combinator"
)

// Identifier is a validated name: a letter or underscore followed by
// letters, digits and underscores.
type Identifier string

// NewIdentifier validates s.
func NewIdentifier(s string) (Identifier, error) {
	if !isIdentifier(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return Identifier(s), nil
}

func (id Identifier) String() string {
	return string(id)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}

// ModulePath is a non-empty, dot-separated sequence of identifiers. A nil
// ModulePath means "no module".
type ModulePath []Identifier

// NewModulePath validates a dotted module name such as "hs.foo".
func NewModulePath(dotted string) (ModulePath, error) {
	parts := strings.Split(dotted, ".")
	path := make(ModulePath, 0, len(parts))
	for _, part := range parts {
		id, err := NewIdentifier(part)
		if err != nil {
			return nil, fmt.Errorf("module path %q: %w", dotted, err)
		}
		path = append(path, id)
	}
	return path, nil
}

// MustModulePath is NewModulePath for known-good literals. It panics on error.
func MustModulePath(dotted string) ModulePath {
	path, err := NewModulePath(dotted)
	if err != nil {
		panic(err)
	}
	return path
}

func (m ModulePath) String() string {
	parts := make([]string, len(m))
	for i, id := range m {
		parts[i] = string(id)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether m and o name the same module.
func (m ModulePath) Equal(o ModulePath) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

// ParameterSignature is one entry of a parameter list.
type ParameterSignature struct {
	Name       Identifier
	IsOptional bool // rendered as [name]
}

// ReturnSignature is a free-text return type such as "string | nil".
type ReturnSignature string

// ConstantSignature is "module.NAME".
type ConstantSignature struct {
	Module ModulePath
	Name   Identifier
}

// ConstructorSignature is "[module.]name(params) [-> returns]".
type ConstructorSignature struct {
	Module     ModulePath
	Name       Identifier
	Parameters []ParameterSignature
	Returns    []ReturnSignature // nil: unspecified; empty: explicitly nothing
}

// FieldSignature is "module.name [type]".
type FieldSignature struct {
	Module ModulePath
	Name   Identifier
	Type   string
}

// FunctionSignature is "[module.]name(params) [-> returns]".
type FunctionSignature struct {
	Module     ModulePath
	Name       Identifier
	Parameters []ParameterSignature
	Returns    []ReturnSignature
}

// MethodSignature is "module:name(params) [-> returns]".
type MethodSignature struct {
	Module     ModulePath
	Name       Identifier
	Parameters []ParameterSignature
	Returns    []ReturnSignature
}

// VariableSignature is "[module.]name [type]".
type VariableSignature struct {
	Module ModulePath
	Name   Identifier
	Type   string
}

// DescriptionDoc is a paragraph, one entry per source line.
type DescriptionDoc []string

// BulletItem is one bullet with its continuation lines and nested bullets.
type BulletItem struct {
	Lines    []string
	Children BulletList
}

// BulletList is a run of sibling bullets.
type BulletList []BulletItem

// ParametersDoc is the list under "Parameters:".
type ParametersDoc struct {
	Items BulletList
}

// ReturnsDoc is the list under "Returns:".
type ReturnsDoc struct {
	Items BulletList
}

// NotesDoc is the list under "Notes:".
type NotesDoc struct {
	Items BulletList
}

// ModuleDetailsDoc is the blank-line separated paragraphs of a module
// declaration.
type ModuleDetailsDoc []DescriptionDoc

// Kind identifies the variant of an Item.
type Kind int

const (
	KindConstant Kind = iota
	KindConstructor
	KindField
	KindFunction
	KindMethod
	KindVariable
)

var kindNames = [...]string{"Constant", "Constructor", "Field", "Function", "Method", "Variable"}

// String returns the heading literal of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Doc is one recognised (or unrecognised) documentation unit.
type Doc interface {
	doc()
}

// Item is a documented module member.
type Item interface {
	Doc
	Kind() Kind
	ModuleName() ModulePath
	ItemName() Identifier
	IsDeprecated() bool
	DescriptionLines() DescriptionDoc
	NotesSection() *NotesDoc
}

// Module is a module declaration: "=== name ===" plus details.
type Module struct {
	Name    ModulePath
	Details ModuleDetailsDoc
}

func (Module) doc() {}

// Unrecognised is a doc-comment run that matched no known shape. Lines are
// kept verbatim minus their comment prefix.
type Unrecognised struct {
	Lines []string
}

func (Unrecognised) doc() {}

// ParseError is produced instead of Unrecognised in strict mode; Err is the
// failure that got farthest.
type ParseError struct {
	Lines []string
	Err   *combinator.Error
}

func (ParseError) doc() {}

// Constant documents a constant.
type Constant struct {
	Signature   ConstantSignature
	Deprecated  bool
	Description DescriptionDoc
	Notes       *NotesDoc
}

// Constructor documents a constructor.
type Constructor struct {
	Signature   ConstructorSignature
	Deprecated  bool
	Description DescriptionDoc
	Parameters  ParametersDoc
	Returns     ReturnsDoc
	Notes       *NotesDoc
}

// Field documents a field.
type Field struct {
	Signature   FieldSignature
	Deprecated  bool
	Description DescriptionDoc
	Notes       *NotesDoc
}

// Function documents a function.
type Function struct {
	Signature   FunctionSignature
	Deprecated  bool
	Description DescriptionDoc
	Parameters  ParametersDoc
	Returns     ReturnsDoc
	Notes       *NotesDoc
}

// Method documents a method.
type Method struct {
	Signature   MethodSignature
	Deprecated  bool
	Description DescriptionDoc
	Parameters  ParametersDoc
	Returns     ReturnsDoc
	Notes       *NotesDoc
}

// Variable documents a variable.
type Variable struct {
	Signature   VariableSignature
	Deprecated  bool
	Description DescriptionDoc
	Notes       *NotesDoc
}

func (Constant) doc()    {}
func (Constructor) doc() {}
func (Field) doc()       {}
func (Function) doc()    {}
func (Method) doc()      {}
func (Variable) doc()    {}

func (Constant) Kind() Kind    { return KindConstant }
func (Constructor) Kind() Kind { return KindConstructor }
func (Field) Kind() Kind       { return KindField }
func (Function) Kind() Kind    { return KindFunction }
func (Method) Kind() Kind      { return KindMethod }
func (Variable) Kind() Kind    { return KindVariable }

func (c Constant) ModuleName() ModulePath    { return c.Signature.Module }
func (c Constructor) ModuleName() ModulePath { return c.Signature.Module }
func (f Field) ModuleName() ModulePath       { return f.Signature.Module }
func (f Function) ModuleName() ModulePath    { return f.Signature.Module }
func (m Method) ModuleName() ModulePath      { return m.Signature.Module }
func (v Variable) ModuleName() ModulePath    { return v.Signature.Module }

func (c Constant) ItemName() Identifier    { return c.Signature.Name }
func (c Constructor) ItemName() Identifier { return c.Signature.Name }
func (f Field) ItemName() Identifier       { return f.Signature.Name }
func (f Function) ItemName() Identifier    { return f.Signature.Name }
func (m Method) ItemName() Identifier      { return m.Signature.Name }
func (v Variable) ItemName() Identifier    { return v.Signature.Name }

func (c Constant) IsDeprecated() bool    { return c.Deprecated }
func (c Constructor) IsDeprecated() bool { return c.Deprecated }
func (f Field) IsDeprecated() bool       { return f.Deprecated }
func (f Function) IsDeprecated() bool    { return f.Deprecated }
func (m Method) IsDeprecated() bool      { return m.Deprecated }
func (v Variable) IsDeprecated() bool    { return v.Deprecated }

func (c Constant) DescriptionLines() DescriptionDoc    { return c.Description }
func (c Constructor) DescriptionLines() DescriptionDoc { return c.Description }
func (f Field) DescriptionLines() DescriptionDoc       { return f.Description }
func (f Function) DescriptionLines() DescriptionDoc    { return f.Description }
func (m Method) DescriptionLines() DescriptionDoc      { return m.Description }
func (v Variable) DescriptionLines() DescriptionDoc    { return v.Description }

func (c Constant) NotesSection() *NotesDoc    { return c.Notes }
func (c Constructor) NotesSection() *NotesDoc { return c.Notes }
func (f Field) NotesSection() *NotesDoc       { return f.Notes }
func (f Function) NotesSection() *NotesDoc    { return f.Notes }
func (m Method) NotesSection() *NotesDoc      { return m.Notes }
func (v Variable) NotesSection() *NotesDoc    { return v.Notes }

// Callable is implemented by the items that take parameters: Constructor,
// Function and Method.
type Callable interface {
	Item
	SignatureParameters() []ParameterSignature
	SignatureReturns() []ReturnSignature
	ParametersSection() ParametersDoc
	ReturnsSection() ReturnsDoc
}

func (c Constructor) SignatureParameters() []ParameterSignature { return c.Signature.Parameters }
func (f Function) SignatureParameters() []ParameterSignature    { return f.Signature.Parameters }
func (m Method) SignatureParameters() []ParameterSignature      { return m.Signature.Parameters }

func (c Constructor) SignatureReturns() []ReturnSignature { return c.Signature.Returns }
func (f Function) SignatureReturns() []ReturnSignature    { return f.Signature.Returns }
func (m Method) SignatureReturns() []ReturnSignature      { return m.Signature.Returns }

func (c Constructor) ParametersSection() ParametersDoc { return c.Parameters }
func (f Function) ParametersSection() ParametersDoc    { return f.Parameters }
func (m Method) ParametersSection() ParametersDoc      { return m.Parameters }

func (c Constructor) ReturnsSection() ReturnsDoc { return c.Returns }
func (f Function) ReturnsSection() ReturnsDoc    { return f.Returns }
func (m Method) ReturnsSection() ReturnsDoc      { return m.Returns }

// DocBlock is a Doc and the source lines it was parsed from.
type DocBlock struct {
	Line    int // first line, 1-based
	EndLine int // last line, inclusive
	Doc     Doc
}
