package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/adapters/watcher"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func collect(t *testing.T, w ports.Watcher, want func(ports.WatchEvent) bool) ports.WatchEvent {
	t.Helper()
	found := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			if want(ev) {
				found <- ev
				return
			}
		}
	}()
	select {
	case ev := <-found:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_ReportsRelativePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "lodash"), 0o750))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log, []string{"node_modules", "*.log"})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer w.Stop() //nolint:errcheck // Best effort cleanup in test

	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "lodash", "a.js"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "debug.log"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.js"), []byte("x"), 0o600))

	ev := collect(t, w, func(ev ports.WatchEvent) bool {
		assert.NotEqual(t, "debug.log", ev.Path)
		assert.NotContains(t, ev.Path, "node_modules")
		return ev.Path == "src/App.js"
	})
	assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, ev.Operation)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer w.Stop() //nolint:errcheck // Best effort cleanup in test

	require.NoError(t, os.MkdirAll(filepath.Join(root, "screens"), 0o750))
	collect(t, w, func(ev ports.WatchEvent) bool { return ev.Path == "screens" })

	require.NoError(t, os.WriteFile(filepath.Join(root, "screens", "Home.js"), []byte("x"), 0o600))
	collect(t, w, func(ev ports.WatchEvent) bool { return ev.Path == "screens/Home.js" })
}

func TestWatcher_EventsEndOnStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), t.TempDir()))
	require.NoError(t, w.Stop())

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after Stop")
	}
}
