package preview

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int32
	w, err := NewWatcher(dir, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, "page.md")
		require.NoError(t, os.WriteFile(p, []byte("# x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "a save burst collapses to one rebuild")
}

func TestWatcherPicksUpNewSubdirectories(t *testing.T) {
	dir := t.TempDir()

	var fired atomic.Int32
	w, err := NewWatcher(dir, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	sub := filepath.Join(dir, "guide")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	assert.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)

	before := fired.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "intro.md"), []byte("# Intro"), 0o644))
	assert.Eventually(t, func() bool { return fired.Load() > before },
		2*time.Second, 20*time.Millisecond)
}

func TestRelevantFiltersNoise(t *testing.T) {
	assert.False(t, relevant(fsnotify.Event{Name: "a/.hidden", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "a/page.md~", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "a/.page.md.swp", Op: fsnotify.Write}))
	assert.False(t, relevant(fsnotify.Event{Name: "a/page.md", Op: fsnotify.Chmod}))
	assert.True(t, relevant(fsnotify.Event{Name: "a/page.md", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "a/page.md", Op: fsnotify.Write | fsnotify.Chmod}))
}
