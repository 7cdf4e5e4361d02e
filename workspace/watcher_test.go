package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hsdoc/config"
)

func waitFor(t *testing.T, changed <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-changed:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("no change reported for %s", want)
		}
	}
}

func TestFileWatcher(t *testing.T) {
	root := t.TempDir()
	ws := New(root, config.Default())

	changed := make(chan string, 16)
	fw, err := NewFileWatcher(ws, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()

	path := filepath.Join(root, "timer.lua")
	require.NoError(t, os.WriteFile(path, []byte(timerSource), 0o644))
	waitFor(t, changed, path)
	require.Eventually(t, func() bool {
		_, ok := ws.Registry().Lookup("hs.timer")
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("--- x\n"), 0o644))

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return ws.GetFile(path) == nil
	}, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, ws.GetFile(filepath.Join(root, "notes.txt")))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
