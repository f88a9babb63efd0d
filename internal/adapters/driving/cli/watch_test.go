package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_TracksLoadedWorld(t *testing.T) {
	env := setupCLITest(t)
	doc := loadedWorld()
	env.world.doc = doc

	out, err := execute(t, "watch", "world.yaml")

	require.NoError(t, err)
	assert.Same(t, doc, env.watcher.tracked)
	assert.True(t, env.watcher.ran)
	assert.Contains(t, out, "Loaded 1 of 2 resources")
	assert.Contains(t, out, "Watching for changes.")
}

func TestWatchCmd_NoWatcher(t *testing.T) {
	setupCLITest(t)
	fileWatcher = nil

	_, err := execute(t, "watch", "world.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file watcher not configured")
}

func TestWatchCmd_LoadFails(t *testing.T) {
	env := setupCLITest(t)
	env.world.err = errors.New("boom")

	_, err := execute(t, "watch", "world.yaml")

	require.Error(t, err)
	assert.Nil(t, env.watcher.tracked)
	assert.False(t, env.watcher.ran)
}

func TestWatchCmd_TrackError(t *testing.T) {
	env := setupCLITest(t)
	env.watcher.trackErr = errors.New("too many files")

	_, err := execute(t, "watch", "world.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch failed")
	assert.False(t, env.watcher.ran)
}

func TestWatchCmd_RunError(t *testing.T) {
	env := setupCLITest(t)
	env.watcher.runErr = errors.New("watcher closed")

	_, err := execute(t, "watch", "world.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher closed")
}
