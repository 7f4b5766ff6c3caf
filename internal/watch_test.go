package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherAdd(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil, nil)
	w, err := NewWatcher(engine, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))

	assert.NoError(t, w.Add(dir))
	assert.Error(t, w.Add(filepath.Join(dir, "does-not-exist")))
}

func TestWatcherAddSkipsExcludedDirs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	excluded := filepath.Join(dir, "vendor")
	require.NoError(t, os.MkdirAll(excluded, 0o755))

	engine := NewEngine(nil, []string{excluded})
	w, err := NewWatcher(engine, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Add(dir))
}

func TestWatcherStartStop(t *testing.T) {
	t.Parallel()
	engine := NewEngine(nil, nil)
	w, err := NewWatcher(engine, zap.NewNop())
	require.NoError(t, err)

	w.Start()
	assert.NoError(t, w.Stop())
}
