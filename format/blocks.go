package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

// BlocksJSONEncoder writes the blocks of one file in source order,
// including the ones that were not recognised.
type BlocksJSONEncoder struct {
	w io.Writer
}

func NewBlocksJSONEncoder(w io.Writer) *BlocksJSONEncoder {
	return &BlocksJSONEncoder{w: w}
}

func (e *BlocksJSONEncoder) Encode(file string, blocks []hsdoc.DocBlock) error {
	text, err := e.MarshalText(file, blocks)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *BlocksJSONEncoder) MarshalText(file string, blocks []hsdoc.DocBlock) ([]byte, error) {
	out := make([]blockJSON, len(blocks))
	for i, b := range blocks {
		out[i] = blockToJSON(file, b)
	}
	text, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}

type blockJSON struct {
	Kind   string          `json:"kind"`
	Span   blockJSONSpan   `json:"span"`
	Module *jsonModule     `json:"module,omitempty"`
	Item   *jsonItem       `json:"item,omitempty"`
	Lines  []string        `json:"lines,omitempty"`
	Error  *blockJSONError `json:"error,omitempty"`
}

type blockJSONSpan struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

type blockJSONError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

func blockToJSON(file string, b hsdoc.DocBlock) blockJSON {
	out := blockJSON{Span: blockJSONSpan{StartLine: b.Line, EndLine: b.EndLine}}
	switch v := b.Doc.(type) {
	case hsdoc.Module:
		out.Kind = "module"
		m := buildModule(registry.Module{Name: v.Name.String(), Details: v.Details, File: file, Line: b.Line})
		out.Module = &m
	case hsdoc.Item:
		out.Kind = "item"
		it := buildItem(registry.Entry{Module: v.ModuleName().String(), File: file, Line: b.Line, EndLine: b.EndLine, Item: v})
		out.Item = &it
	case hsdoc.Unrecognised:
		out.Kind = "unrecognised"
		out.Lines = v.Lines
	case hsdoc.ParseError:
		out.Kind = "error"
		out.Lines = v.Lines
		out.Error = &blockJSONError{Line: v.Err.Pos.Line, Column: v.Err.Pos.Column, Message: v.Err.Msg}
	}
	return out
}
