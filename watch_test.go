package lumen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReloadRunsAfterUpdate(t *testing.T) {
	loads := 0
	ui := NewUI(DefaultConfig(), WithLogger(NopLogger()), WithLoader(func(*UI) error {
		loads++
		return nil
	}))
	require.NoError(t, ui.Load())

	ui.RequestReload()
	assert.Equal(t, 1, loads, "reload waits for the update pass")
	ui.Update(0)
	assert.Equal(t, 2, loads)
	ui.Update(0)
	assert.Equal(t, 2, loads)
}

func TestWatcherRequestsReload(t *testing.T) {
	dir := t.TempDir()
	layout := filepath.Join(dir, "layout.toml")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(layout, []byte("a"), 0o644))

	ui := newTestUI(t)
	w, err := ui.Watch(layout)
	require.NoError(t, err)
	defer w.Close()

	// Unwatched files in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, ui.reloadRequested.Load())

	require.NoError(t, os.WriteFile(layout, []byte("b"), 0o644))
	assert.Eventually(t, ui.reloadRequested.Load, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second Close is a no-op")
}

func TestWatchMissingDirectory(t *testing.T) {
	ui := newTestUI(t)
	_, err := ui.Watch(filepath.Join(t.TempDir(), "nope", "layout.toml"))
	assert.Error(t, err)
}
