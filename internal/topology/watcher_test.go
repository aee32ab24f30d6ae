package topology

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_LoadsNewFiles(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	w := NewWatcher(reg, dir)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	writeTopology(t, dir, "top1.json", `{"id":"top1","components":[]}`)
	writeTopology(t, dir, ".top2.json.tmp-1", `{"id":"hidden"}`)
	writeTopology(t, dir, "notes.txt", `{"id":"txt"}`)

	assert.Eventually(t, func() bool {
		return w.LoadCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"top1"}, reg.IDs())

	// Rewriting a file that was already loaded does not load it twice.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top1.json"), []byte(`{"id":"top1"}`), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, uint32(1), w.LoadCount())
	assert.Equal(t, 1, reg.Len())
}

func TestWatcher_BadFileIsReportedNotLoaded(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	w := NewWatcher(reg, dir)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	time.Sleep(100 * time.Millisecond)

	writeTopology(t, dir, "bad.json", `{"id":`)
	writeTopology(t, dir, "good.json", `{"id":"good"}`)

	assert.Eventually(t, func() bool {
		return w.LoadCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"good"}, reg.IDs())
}

func TestWatcher_RetriesFileFixedAfterFailedLoad(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()

	w := NewWatcher(reg, dir)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	time.Sleep(100 * time.Millisecond)

	path := writeTopology(t, dir, "top.json", `{"id":`)
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, reg.Len())

	require.NoError(t, os.WriteFile(path, []byte(`{"id":"top"}`), 0o644))

	assert.Eventually(t, func() bool {
		return reg.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"top"}, reg.IDs())
	assert.Equal(t, uint32(1), w.LoadCount())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(NewRegistry(), filepath.Join(t.TempDir(), "missing"))

	err := w.Run(context.Background())
	assert.Error(t, err)
}
