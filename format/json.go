package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

type JSONEncoder struct {
	w   io.Writer
	reg *registry.Registry
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(reg *registry.Registry) error {
	e.reg = reg
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	text, err := json.MarshalIndent(buildDocument(e.reg), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type jsonDocument struct {
	Modules  []jsonModule  `json:"modules" yaml:"modules"`
	Problems []jsonProblem `json:"problems,omitempty" yaml:"problems,omitempty"`
}

type jsonModule struct {
	Name     string     `json:"name" yaml:"name"`
	Declared bool       `json:"declared" yaml:"declared"`
	File     string     `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int        `json:"line,omitempty" yaml:"line,omitempty"`
	Details  [][]string `json:"details,omitempty" yaml:"details,omitempty"`
	Items    []jsonItem `json:"items,omitempty" yaml:"items,omitempty"`
}

type jsonItem struct {
	Kind        string          `json:"kind" yaml:"kind"`
	Name        string          `json:"name" yaml:"name"`
	Qualified   string          `json:"qualified" yaml:"qualified"`
	Signature   string          `json:"signature" yaml:"signature"`
	Deprecated  bool            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	File        string          `json:"file,omitempty" yaml:"file,omitempty"`
	Line        int             `json:"line,omitempty" yaml:"line,omitempty"`
	Description []string        `json:"description" yaml:"description"`
	Parameters  []jsonParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Returns     []string        `json:"returns,omitempty" yaml:"returns,omitempty"`
	Type        string          `json:"type,omitempty" yaml:"type,omitempty"`
	ParamDocs   []jsonBullet    `json:"parameterDocs,omitempty" yaml:"parameterDocs,omitempty"`
	ReturnDocs  []jsonBullet    `json:"returnDocs,omitempty" yaml:"returnDocs,omitempty"`
	Notes       []jsonBullet    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type jsonParameter struct {
	Name     string `json:"name" yaml:"name"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

type jsonBullet struct {
	Text     []string     `json:"text" yaml:"text"`
	Children []jsonBullet `json:"children,omitempty" yaml:"children,omitempty"`
}

type jsonProblem struct {
	Kind    string `json:"kind" yaml:"kind"`
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	EndLine int    `json:"endLine" yaml:"endLine"`
	Message string `json:"message" yaml:"message"`
}

func buildDocument(reg *registry.Registry) jsonDocument {
	var doc jsonDocument
	for _, m := range reg.Modules() {
		doc.Modules = append(doc.Modules, buildModule(m))
	}
	for _, p := range reg.Problems() {
		doc.Problems = append(doc.Problems, jsonProblem{
			Kind:    p.Kind.String(),
			File:    p.File,
			Line:    p.Line,
			EndLine: p.EndLine,
			Message: p.Message,
		})
	}
	if doc.Modules == nil {
		doc.Modules = []jsonModule{}
	}
	return doc
}

func buildModule(m registry.Module) jsonModule {
	data := jsonModule{
		Name:     m.Name,
		Declared: m.Declared(),
		File:     m.File,
		Line:     m.Line,
	}
	for _, p := range m.Details {
		data.Details = append(data.Details, []string(p))
	}
	for _, e := range m.Items {
		data.Items = append(data.Items, buildItem(e))
	}
	return data
}

func buildItem(e registry.Entry) jsonItem {
	it := e.Item
	data := jsonItem{
		Kind:        it.Kind().String(),
		Name:        string(it.ItemName()),
		Qualified:   e.QualifiedName(),
		Signature:   hsdoc.SignatureString(it),
		Deprecated:  it.IsDeprecated(),
		File:        e.File,
		Line:        e.Line,
		Description: []string(it.DescriptionLines()),
	}
	switch v := it.(type) {
	case hsdoc.Field:
		data.Type = v.Signature.Type
	case hsdoc.Variable:
		data.Type = v.Signature.Type
	}
	if c, ok := it.(hsdoc.Callable); ok {
		for _, p := range c.SignatureParameters() {
			data.Parameters = append(data.Parameters, jsonParameter{Name: string(p.Name), Optional: p.IsOptional})
		}
		for _, r := range c.SignatureReturns() {
			data.Returns = append(data.Returns, string(r))
		}
		data.ParamDocs = buildBullets(c.ParametersSection().Items)
		data.ReturnDocs = buildBullets(c.ReturnsSection().Items)
	}
	if notes := it.NotesSection(); notes != nil {
		data.Notes = buildBullets(notes.Items)
	}
	return data
}

func buildBullets(list hsdoc.BulletList) []jsonBullet {
	if len(list) == 0 {
		return nil
	}
	result := make([]jsonBullet, len(list))
	for i, b := range list {
		result[i] = jsonBullet{Text: b.Lines, Children: buildBullets(b.Children)}
	}
	return result
}
