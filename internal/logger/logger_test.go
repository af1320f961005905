package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, shutdown, err := New(context.Background(), Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer shutdown(context.Background())

	log.Info("hidden")
	log.Warn("shown", "bug_id", "b1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "b1", entry["bug_id"])
}

func TestNew_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(context.Background(), Options{Output: &buf})
	require.NoError(t, err)

	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestTeeHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &teeHandler{
		level: slog.LevelInfo,
		handlers: []slog.Handler{
			slog.NewTextHandler(&a, nil),
			slog.NewTextHandler(&b, nil),
		},
	}
	log := slog.New(h).With("svc", "bugs")

	log.Debug("dropped")
	log.Info("kept")

	assert.Contains(t, a.String(), "msg=kept")
	assert.Contains(t, a.String(), "svc=bugs")
	assert.Contains(t, b.String(), "msg=kept")
	assert.NotContains(t, a.String(), "dropped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
