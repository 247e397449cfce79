package adapters

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerhub-utils/internal/logging/types"
)

func entry(level types.LogLevel, msg string, fields map[string]interface{}) *types.LogEntry {
	return &types.LogEntry{
		Level:     level,
		Message:   msg,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Fields:    fields,
	}
}

func TestStdoutAdapter_JSON(t *testing.T) {
	var buf bytes.Buffer
	a := NewStdoutAdapter("stdout", StdoutConfig{Format: "json", Writer: &buf})

	require.NoError(t, a.Write(entry(types.InfoLevel, "page rendered", map[string]interface{}{"page": 1})))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "info", record["level"])
	assert.Equal(t, "page rendered", record["message"])
	assert.Equal(t, float64(1), record["page"])
	assert.Equal(t, "2026-03-01T12:00:00Z", record["time"])
}

func TestStdoutAdapter_Text(t *testing.T) {
	var buf bytes.Buffer
	a := NewStdoutAdapter("stdout", StdoutConfig{Format: "text", Writer: &buf})

	require.NoError(t, a.Write(entry(types.WarnLevel, "slow backend", map[string]interface{}{"b": 2, "a": 1})))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "[WARN] slow backend a=1 b=2"), line)
}

func TestStdoutAdapter_Colorized(t *testing.T) {
	var buf bytes.Buffer
	a := NewStdoutAdapter("stdout", StdoutConfig{Format: "text", Colorized: true, Writer: &buf})

	require.NoError(t, a.Write(entry(types.ErrorLevel, "boom", nil)))
	assert.Contains(t, buf.String(), "\033[31mERROR\033[0m")
}

func TestFileAdapter_WritesAndRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "service.log")

	a, err := NewFileAdapter("file", FileConfig{
		FilePath:   path,
		Format:     "json",
		MaxSize:    10,
		MaxBackups: 2,
		Compress:   true,
		CreateDirs: true,
	})
	require.NoError(t, err)

	require.NoError(t, a.Write(entry(types.InfoLevel, "first", nil)))
	// the first line exceeds MaxSize so this write rotates
	require.NoError(t, a.Write(entry(types.InfoLevel, "second", nil)))
	require.NoError(t, a.Close())

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "second")
	assert.NotContains(t, string(current), "first")

	matches, err := filepath.Glob(path + ".*.gz")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	rotated, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(rotated), "first")
}

func TestFileAdapter_ClosedWrite(t *testing.T) {
	a, err := NewFileAdapter("file", FileConfig{FilePath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	assert.Error(t, a.Write(entry(types.InfoLevel, "late", nil)))
	assert.Error(t, a.Health())
	assert.NoError(t, a.Close())
}

func TestMemoryAdapter_Messages(t *testing.T) {
	a := NewMemoryAdapter("memory")
	require.NoError(t, a.Write(entry(types.DebugLevel, "noise", nil)))
	require.NoError(t, a.Write(entry(types.ErrorLevel, "signal", nil)))

	assert.Equal(t, []string{"signal"}, a.Messages(types.WarnLevel))
	assert.Len(t, a.Entries(), 2)
}
