package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hsdoc/config"
	"github.com/dhamidi/hsdoc/workspace"
)

const timerSource = `--- === hs.timer ===
---
--- Timers.

--- hs.timer.new(interval) -> timer
--- Constructor
--- Creates a timer.
---
--- Parameters:
---  * interval - seconds
---
--- Returns:
---  * A timer

--- hs.timer:stop()
--- Method
--- Stops the timer.
---
--- Parameters:
---  * None
---
--- Returns:
---  * None

--- stray text
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ws := workspace.New(t.TempDir(), config.Default())
	ws.UpdateFile("timer.lua", []byte(timerSource))
	return New(ws, "test")
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListModules(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListModules(context.Background(), call("list_modules", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var modules []moduleSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &modules))
	require.Len(t, modules, 1)
	assert.Equal(t, moduleSummary{Name: "hs.timer", Declared: true, File: "timer.lua", Line: 1, Items: 2}, modules[0])
}

func TestDescribeModule(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleDescribeModule(context.Background(), call("describe_module", map[string]any{"name": "hs.timer"}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "# hs.timer")
	assert.Contains(t, text, "`hs.timer.new(interval) -> timer`")
	assert.Contains(t, text, "`hs.timer:stop()`")

	res, err = s.handleDescribeModule(context.Background(), call("describe_module", map[string]any{"name": "hs.nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDescribeModule(context.Background(), call("describe_module", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestLookupItem(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleLookupItem(context.Background(), call("lookup_item", map[string]any{"name": "hs.timer:stop"}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Stops the timer.")
	assert.Contains(t, text, "Defined at timer.lua:15")

	res, err = s.handleLookupItem(context.Background(), call("lookup_item", map[string]any{"name": "hs.timer.stop"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListProblems(t *testing.T) {
	s := newTestServer(t)
	for _, args := range []map[string]any{nil, {"file": "timer.lua"}} {
		res, err := s.handleListProblems(context.Background(), call("list_problems", args))
		require.NoError(t, err)

		var problems []problemSummary
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &problems))
		require.Len(t, problems, 1)
		assert.Equal(t, "unrecognised", problems[0].Kind)
		assert.Equal(t, 25, problems[0].Line)
	}

	res, err := s.handleListProblems(context.Background(), call("list_problems", map[string]any{"file": "other.lua"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))
}

func TestCheckSource(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleCheckSource(context.Background(), call("check_source", map[string]any{
		"source": "--- hs.x.y\n--- Constant\n--- A constant.\n\n--- junk\n",
		"strict": true,
	}))
	require.NoError(t, err)

	var blocks []struct {
		Kind string `json:"kind"`
		Span struct {
			StartLine int `json:"startLine"`
		} `json:"span"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, "item", blocks[0].Kind)
	assert.Equal(t, "error", blocks[1].Kind)
	assert.Equal(t, 5, blocks[1].Span.StartLine)
}
