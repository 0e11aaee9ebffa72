package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatJSON, "warn")
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "user_handle", "bob")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "bob", entry["user_handle"])
}

func TestNew_Zerolog(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatZerolog, "debug")
	require.NoError(t, err)

	log.With("component", "http").Error(context.Background(), "boom", "status", 500)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "boom", entry["message"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "http", entry["component"])
	assert.EqualValues(t, 500, entry["status"])
}

func TestNew_RejectsUnknownFormatAndLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, FormatText, "loud")
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, FormatZerolog, "loud")
	assert.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := NewNop().With("a", 1)
	log.Info(context.TODO(), "ignored")
	log.Error(context.TODO(), "ignored")
}

func TestNew_ZerologAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatZerolog, "info")
	require.NoError(t, err)

	log.Warn(ContextWithRequestID(context.Background(), "req-7"), "rejected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "req-7", entry["request_id"])
}
