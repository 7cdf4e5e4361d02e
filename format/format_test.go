package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

const source = `--- === hs.timer ===
---
--- Run things later.

--- hs.timer:start([delay]) -> self
--- Method
--- Starts the timer.
---
--- Parameters:
---  * delay - seconds
---     * defaults to 0
---
--- Returns:
---  * The timer

--- hs.timer.interval number
--- Deprecated
--- Use start instead.

--- oops
`

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	r.Add("timer.lua", hsdoc.Parse(source))
	require.Len(t, r.Modules(), 1)
	return r
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(testRegistry(t)))

	var doc jsonDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Modules, 1)

	m := doc.Modules[0]
	assert.Equal(t, "hs.timer", m.Name)
	assert.True(t, m.Declared)
	assert.Equal(t, [][]string{{"Run things later."}}, m.Details)
	require.Len(t, m.Items, 2)

	start := m.Items[0]
	assert.Equal(t, "Method", start.Kind)
	assert.Equal(t, "hs.timer:start", start.Qualified)
	assert.Equal(t, []jsonParameter{{Name: "delay", Optional: true}}, start.Parameters)
	assert.Equal(t, []string{"self"}, start.Returns)
	require.Len(t, start.ParamDocs, 1)
	assert.Equal(t, []string{"defaults to 0"}, start.ParamDocs[0].Children[0].Text)

	interval := m.Items[1]
	assert.Equal(t, "Field", interval.Kind)
	assert.Equal(t, "number", interval.Type)
	assert.True(t, interval.Deprecated)

	require.Len(t, doc.Problems, 1)
	assert.Equal(t, "unrecognised", doc.Problems[0].Kind)
	assert.Equal(t, 20, doc.Problems[0].Line)
}

func TestJSONEncoderEmptyRegistry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEncoder(&buf).Encode(registry.New()))
	assert.JSONEq(t, `{"modules": []}`, buf.String())
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLEncoder(&buf).Encode(testRegistry(t)))

	var doc jsonDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Modules, 1)
	assert.Equal(t, "hs.timer", doc.Modules[0].Name)
	require.Len(t, doc.Modules[0].Items, 2)
	assert.Equal(t, "hs.timer:start", doc.Modules[0].Items[0].Qualified)
}

func TestMarkdownEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownEncoder(&buf).Encode(testRegistry(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# hs.timer\n\nRun things later.\n"))
	assert.Contains(t, out, "## `hs.timer:start([delay]) -> self`\n\n*Method*\n\nStarts the timer.\n")
	assert.Contains(t, out, "**Parameters**\n\n- delay - seconds\n  - defaults to 0\n")
	assert.Contains(t, out, "*Field, deprecated*")
	assert.Contains(t, out, "# Problems\n\n- `timer.lua:20` unrecognised documentation block\n")
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(testRegistry(t)))

	want := strings.Join([]string{
		"module\ths.timer\ttimer.lua:1\t2",
		"method\ths.timer:start\ths.timer:start([delay]) -> self\ttimer.lua:5\t",
		"field\ths.timer.interval\ths.timer.interval number\ttimer.lua:16\tdeprecated",
		"problem\tunrecognised\ttimer.lua:20\tunrecognised documentation block",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Names {
		enc, err := NewEncoder(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}
	_, err := NewEncoder("xml", &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestBlocksJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	blocks := hsdoc.Parse("--- foo.bar(a)\n--- Function\n--- Desc.\n---\n--- Parameters:\n---  * a\n", hsdoc.WithStrict())
	require.NoError(t, NewBlocksJSONEncoder(&buf).Encode("x.lua", blocks))

	var out []blockJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "error", out[0].Kind)
	assert.Equal(t, blockJSONSpan{StartLine: 1, EndLine: 6}, out[0].Span)
	require.NotNil(t, out[0].Error)
	assert.NotEmpty(t, out[0].Error.Message)
}

func TestMarkdownBlock(t *testing.T) {
	blocks := hsdoc.Parse("--- === hs.a ===\n---\n--- About a.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "# hs.a\n\nAbout a.\n", Markdown(blocks[0].Doc))
}

func TestModuleMarkdown(t *testing.T) {
	m, ok := testRegistry(t).Lookup("hs.timer")
	require.True(t, ok)

	text := ModuleMarkdown(m)
	assert.True(t, strings.HasPrefix(text, "# hs.timer\n\nRun things later.\n"))
	assert.Contains(t, text, "## `hs.timer:start([delay]) -> self`")
	assert.NotContains(t, text, "# Problems")
}
