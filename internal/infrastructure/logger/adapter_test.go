package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tree read", "tree_read"},
		{"", "run"},
		{"a/b\\c", "a_b_c"},
		{strings.Repeat("x", 80), strings.Repeat("x", 60)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in))
	}
}

func TestLoggerAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)

	log.WithField("tree", "treeview1").Info("expanding", "path", "Parent 1/Child 1")
	log.WithFields(map[string]any{"widget": "Dropdown"}).Warn("closing")
	log.Debug("debug")

	entries := logs.All()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "treeview1", first["tree"])
	assert.Equal(t, "Parent 1/Child 1", first["path"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Dropdown", entries[1].ContextMap()["widget"])
	assert.Equal(t, "debug", entries[2].Message)
}

func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()

	log, err := NewFileLogger(dir, "tree read")
	require.NoError(t, err)
	log.Info("hello", "k", 1)
	require.NoError(t, log.Close())

	files, err := filepath.Glob(filepath.Join(dir, "*_tree_read.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Error("ignored")
	assert.NoError(t, log.Close())
}
