// Package format renders a documentation registry as JSON, YAML, Markdown
// or tab-separated lines.
package format

import (
	"encoding"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/hsdoc/registry"
)

// ErrUnknownFormat is returned by NewEncoder.
var ErrUnknownFormat = errors.New("unknown output format")

// Names lists the formats NewEncoder accepts.
var Names = []string{"json", "yaml", "markdown", "text"}

type Encoder interface {
	encoding.TextMarshaler
	Encode(reg *registry.Registry) error
}

// NewEncoder returns the encoder called name writing to w.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "markdown", "md":
		return NewMarkdownEncoder(w), nil
	case "text", "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
