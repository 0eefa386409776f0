package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	telerrors "github.com/socialchef/telekit/internal/errors"
)

func TestNewRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	w, err := NewRotatingFile(dir, "log_myproj_", 7*24*time.Hour)
	require.NoError(t, err)

	l := slog.New(NewJSONFile(w, LevelTrace))
	l.Log(t.Context(), LevelTrace, "to disk", "n", 1)
	name := DailyFileName(dir, "log_myproj_", time.Now())
	assert.Equal(t, name, w.CurrentFileName())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "to disk", entry["msg"])
	assert.Equal(t, "TRACE", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingFile(t.TempDir(), "log_", 0)
	require.NoError(t, err)

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestNewRotatingFile_BadDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewRotatingFile(filepath.Join(blocker, "logs"), "log_", 0)
	require.Error(t, err)
	assert.Equal(t, telerrors.ErrorTypeSink, telerrors.TypeOf(err))
}

func TestDailyFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, filepath.Join("logs", "log_p_2026-03-05"), DailyFileName("logs", "log_p_", ts))
}

func TestNewRotatingFile_NonPositiveMaxAgeKeepsOldFiles(t *testing.T) {
	for _, maxAge := range []time.Duration{0, -1} {
		dir := t.TempDir()
		old := filepath.Join(dir, "log_p_2000-01-01")
		require.NoError(t, os.WriteFile(old, []byte("old\n"), 0644))
		past := time.Now().Add(-30 * 24 * time.Hour)
		require.NoError(t, os.Chtimes(old, past, past))

		w, err := NewRotatingFile(dir, "log_p_", maxAge)
		require.NoError(t, err)
		_, err = w.Write([]byte("new\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		// rotatelogs prunes in the background; give it a chance to run.
		time.Sleep(100 * time.Millisecond)
		_, err = os.Stat(old)
		assert.NoError(t, err, "maxAge %v pruned a 30 day old file", maxAge)
	}
}
