package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hsdoc/config"
	"github.com/dhamidi/hsdoc/hsdoc"
	"github.com/dhamidi/hsdoc/registry"
)

const timerSource = `--- === hs.timer ===
---
--- Timers.

--- hs.timer.new(interval, fn) -> timer
--- Constructor
--- Creates a timer.
---
--- Parameters:
---  * interval - seconds
---  * fn - callback
---
--- Returns:
---  * A timer

--- hs.timer:start() -> timer
--- Method
--- Starts the timer.
---
--- Parameters:
---  * None
---
--- Returns:
---  * The timer
local t = hs.timer.
t = hs.timer:
x = hs.
`

const alertSource = `--- hs.alert.show(msg)
--- Function
--- Shows msg.
---
--- Parameters:
---  * msg - the text
---
--- Returns:
---  * None

--- just a note
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScanAll(t *testing.T) {
	root := writeTree(t, map[string]string{
		"timer.lua":         timerSource,
		"extra/alert.lua":   alertSource,
		"vendor/skip.lua":   alertSource,
		"README.md":         "--- === readme ===\n",
		".git/hooks/x.lua":  timerSource,
	})
	ws := New(root, config.Default())
	require.NoError(t, ws.ScanAll(context.Background()))

	assert.NotNil(t, ws.GetFile(filepath.Join(root, "timer.lua")))
	assert.NotNil(t, ws.GetFile(filepath.Join(root, "extra", "alert.lua")))
	assert.Nil(t, ws.GetFile(filepath.Join(root, "vendor", "skip.lua")))
	assert.Nil(t, ws.GetFile(filepath.Join(root, "README.md")))

	var names []string
	for _, m := range ws.Registry().Modules() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"hs.alert", "hs.timer"}, names)

	timer, ok := ws.Registry().Lookup("hs.timer")
	require.True(t, ok)
	assert.Len(t, timer.Items, 2)
}

func TestScanAllCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"timer.lua": timerSource})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ws := New(root, config.Default())
	assert.ErrorIs(t, ws.ScanAll(ctx), context.Canceled)
	assert.Empty(t, ws.Registry().Files())
}

func TestDiagnostics(t *testing.T) {
	ws := New(t.TempDir(), config.Default())
	ws.UpdateFile("alert.lua", []byte(alertSource))
	ws.UpdateFile("timer.lua", []byte(timerSource))

	assert.Empty(t, ws.Diagnostics("timer.lua"))

	problems := ws.Diagnostics("alert.lua")
	require.Len(t, problems, 2)
	assert.Equal(t, registry.ProblemUndeclaredModule, problems[0].Kind)
	assert.Equal(t, 1, problems[0].Line)
	assert.Equal(t, registry.ProblemUnrecognised, problems[1].Kind)
	assert.Equal(t, 11, problems[1].Line)

	ws.RemoveFile("alert.lua")
	assert.Empty(t, ws.Diagnostics("alert.lua"))
	assert.Nil(t, ws.GetFile("alert.lua"))
}

func TestStrictDiagnostics(t *testing.T) {
	cfg := config.Default()
	cfg.Strict = true
	ws := New(t.TempDir(), cfg)
	ws.UpdateFile("alert.lua", []byte(alertSource))

	problems := ws.Diagnostics("alert.lua")
	require.Len(t, problems, 2)
	assert.Equal(t, registry.ProblemParseError, problems[1].Kind)
}

func TestBlockAt(t *testing.T) {
	ws := New(t.TempDir(), config.Default())
	ws.UpdateFile("timer.lua", []byte(timerSource))

	b, ok := ws.BlockAt("timer.lua", 7)
	require.True(t, ok)
	assert.Equal(t, 5, b.Line)
	assert.Equal(t, 14, b.EndLine)
	_, isConstructor := b.Doc.(hsdoc.Constructor)
	assert.True(t, isConstructor)

	_, ok = ws.BlockAt("timer.lua", 15)
	assert.False(t, ok)
	_, ok = ws.BlockAt("missing.lua", 1)
	assert.False(t, ok)
}

func TestCompletionsAtPoint(t *testing.T) {
	ws := New(t.TempDir(), config.Default())
	ws.UpdateFile("timer.lua", []byte(timerSource))

	items := ws.CompletionsAtPoint("timer.lua", 25, len("local t = hs.timer."))
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].Label)
	assert.Equal(t, CompletionKindConstructor, items[0].Kind)
	assert.Equal(t, "hs.timer.new(interval, fn) -> timer", items[0].Detail)
	assert.Equal(t, "Creates a timer.", items[0].Documentation)

	items = ws.CompletionsAtPoint("timer.lua", 26, len("t = hs.timer:"))
	require.Len(t, items, 1)
	assert.Equal(t, "start", items[0].Label)
	assert.Equal(t, CompletionKindMethod, items[0].Kind)

	items = ws.CompletionsAtPoint("timer.lua", 27, len("x = hs."))
	require.Len(t, items, 1)
	assert.Equal(t, "timer", items[0].Label)
	assert.Equal(t, CompletionKindModule, items[0].Kind)

	assert.Empty(t, ws.CompletionsAtPoint("timer.lua", 1, 3))
	assert.Empty(t, ws.CompletionsAtPoint("missing.lua", 1, 0))
}

func TestModuleBeforePoint(t *testing.T) {
	tests := []struct {
		line    string
		col     int
		module  string
		trigger byte
		ok      bool
	}{
		{"hs.timer.", 9, "hs.timer", '.', true},
		{"hs.timer.ne", 11, "hs.timer", '.', true},
		{"(obj:", 5, "obj", ':', true},
		{"x = hs.", 7, "hs", '.', true},
		{".", 1, "", 0, false},
		{"foo bar", 7, "", 0, false},
		{"a - .", 5, "", 0, false},
		{"9x.", 3, "", 0, false},
	}
	for _, tt := range tests {
		module, trigger, ok := moduleBeforePoint([]byte(tt.line), 1, tt.col)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.module, module, tt.line)
		assert.Equal(t, tt.trigger, trigger, tt.line)
	}
}
