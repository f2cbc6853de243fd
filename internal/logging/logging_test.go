package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "iqro.log")
	log, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debugw("hello", "item", "1-0-0")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello"))
	assert.True(t, strings.Contains(string(data), "1-0-0"))
}

func TestNew_LevelFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iqro.log")
	t.Setenv("IQRO_LOG_LEVEL", "warn")
	log, err := New(Options{File: path})
	require.NoError(t, err)

	log.Infow("quiet")
	log.Warnw("loud")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	path, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/iqro/iqro.log", path)
}
