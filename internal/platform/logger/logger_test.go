package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("nope"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestJSONLogger_WithFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "adopit", Writer: &buf})

	l.Debug("hidden", nil)
	l.With(map[string]any{"module": "pets"}).Warn("read degraded", map[string]any{
		"err": errors.New("boom"),
		"op":  "available_for",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "read degraded", entry["msg"])
	assert.Equal(t, "adopit", entry["app"])
	assert.Equal(t, "pets", entry["module"])
	assert.Equal(t, "boom", entry["err"])
	assert.Equal(t, "available_for", entry["op"])
}

func TestTextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Debug, Writer: &buf})

	l.Debug("seeded", map[string]any{"count": 3})
	assert.Contains(t, buf.String(), "msg=seeded")
	assert.Contains(t, buf.String(), "count=3")
}
