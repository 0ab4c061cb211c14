package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf), WithFormat("text"))
	lg.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "key=value")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf), WithFormat("json"))
	lg.Error("boom", "task", "extract")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "boom", decoded["msg"])
	assert.Equal(t, "extract", decoded["task"])
}

func TestDebugLevelGating(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf))
	lg.Debug("should not appear")
	assert.Empty(t, buf.String())

	buf.Reset()
	lg = NewLogger(WithWriter(&buf), WithDebug())
	lg.Debug("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestFormattedVariants(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf))
	lg.Infof("task %s finished in %d ms", "load", 42)
	assert.Contains(t, buf.String(), "task load finished in 42 ms")
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf), WithFormat("json"))
	child := lg.With("workflow", "daily_etl")
	child.Info("starting")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "daily_etl", decoded["workflow"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(WithWriter(&buf))
	ctx := WithLogger(context.Background(), lg)

	Info(ctx, "from helper")
	assert.Contains(t, buf.String(), "from helper")
}

func TestContextDefaultIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Info(context.Background(), "no logger attached")
	})
}

func TestOpenLogFileCreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.log")

	f, err := OpenLogFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestTeeDuplicatesWrites(t *testing.T) {
	var a, b bytes.Buffer
	w := Tee(&a, &b)
	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(a.String(), "line"))
	assert.True(t, strings.Contains(b.String(), "line"))
}
