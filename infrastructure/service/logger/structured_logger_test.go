package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewStructuredLogger(LoggerConfig{
		Level:       level,
		Format:      "json",
		ServiceName: "test-service",
		Output:      buf,
	}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestStructuredLogger_FieldsAndCorrelation(t *testing.T) {
	log, buf := newBufferLogger("debug")
	ctx := WithCorrelationID(context.Background(), "cid-1")

	log.WithFields(map[string]interface{}{"component": "keys"}).
		Info(ctx, "hello", map[string]interface{}{"kid": "k1"})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0]["msg"])
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "test-service", entries[0]["service"])
	assert.Equal(t, "keys", entries[0]["component"])
	assert.Equal(t, "k1", entries[0]["kid"])
	assert.Equal(t, "cid-1", entries[0]["correlation_id"])
}

func TestStructuredLogger_RedactsSecrets(t *testing.T) {
	log, buf := newBufferLogger("info")

	log.Warn(context.Background(), "login failed", map[string]interface{}{
		"password":    "hunter2",
		"Token":       "eyJhbGciOi...",
		"private_key": "MIIEvQIBADANBg...",
		"login":       "alice",
	})

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "eyJhbGciOi")
	assert.NotContains(t, out, "MIIEvQIBADANBg")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, redacted)
}

func TestStructuredLogger_ErrorAndLevel(t *testing.T) {
	log, buf := newBufferLogger("warn")

	log.Info(context.Background(), "dropped", nil)
	log.Debug(context.Background(), "dropped too", nil)
	log.Error(context.Background(), "boom", errors.New("root cause"), nil)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0]["msg"])
	assert.Equal(t, "root cause", entries[0]["error"])
}

func TestLogSecurityEvent_SeverityMapsToLevel(t *testing.T) {
	log, buf := newBufferLogger("info")

	LogSecurityEvent(context.Background(), log, "access_denied", "MEDIUM", map[string]interface{}{"actor_id": "u2"})
	LogSecurityEvent(context.Background(), log, "key_mismatch", "HIGH", nil)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warning", entries[0]["level"])
	assert.Equal(t, "access_denied", entries[0]["security_event"])
	assert.Equal(t, "u2", entries[0]["actor_id"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "", CorrelationID(context.Background()))
}

func TestEventHelpers_LeaveCallerFieldsUntouched(t *testing.T) {
	log, buf := newBufferLogger("info")
	shared := map[string]interface{}{"path": "/v1/users/u2"}

	LogSecurityEvent(context.Background(), log, "access_denied", "MEDIUM", shared)
	LogAuthEvent(context.Background(), log, "login", "u1", true, shared)
	LogPerformance(context.Background(), log, "rsa_key_generation", 0, shared)

	assert.Equal(t, map[string]interface{}{"path": "/v1/users/u2"}, shared)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 3)
	assert.Equal(t, "security", entries[0]["event_type"])
	assert.NotContains(t, entries[1], "security_event")
	assert.Equal(t, "auth", entries[1]["event_type"])
	assert.NotContains(t, entries[2], "auth_event")
	assert.Equal(t, "/v1/users/u2", entries[2]["path"])
}
