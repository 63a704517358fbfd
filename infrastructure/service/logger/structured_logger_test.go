package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "students-api",
		Output:      &buf,
	})

	ctx := WithCorrelationID(context.Background(), "cid-123")
	log.Error(ctx, "lookup failed", errors.New("boom"), map[string]interface{}{"student_id": 7})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "lookup failed", line["msg"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "cid-123", line["correlation_id"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "students-api", line["service"])
	assert.EqualValues(t, 7, line["student_id"])
	assert.Contains(t, line["caller"], "structured_logger_test.go")
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "warn", Format: "text", Output: &buf})

	log.Debug(context.Background(), "hidden", nil)
	log.Info(context.Background(), "hidden too", nil)
	assert.Empty(t, buf.String())

	log.Warn(context.Background(), "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	base, hook := test.NewNullLogger()
	parent := NewFromLogrus(base, "svc")
	child := parent.WithFields(map[string]interface{}{"component": "auth"})

	parent.Info(context.Background(), "parent", nil)
	child.Info(context.Background(), "child", nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].Data, "component")
	assert.Equal(t, "auth", entries[1].Data["component"])
}

func TestLogAuthEvent(t *testing.T) {
	base, hook := test.NewNullLogger()
	log := NewFromLogrus(base, "svc")

	LogAuthEvent(context.Background(), log, "service_token", "", "10.0.0.1", false, map[string]interface{}{"reason": "expired"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Auth event failed: service_token", entry.Message)
	assert.Equal(t, "auth", entry.Data["event_type"])
	assert.Equal(t, false, entry.Data["success"])
	assert.Equal(t, "expired", entry.Data["reason"])

	LogAuthEvent(context.Background(), log, "service_token", "svc-1", "10.0.0.1", true, nil)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestLogSecurityAndPerformance(t *testing.T) {
	base, hook := test.NewNullLogger()
	log := NewFromLogrus(base, "svc")

	LogSecurityEvent(context.Background(), log, "tampered_token", "HIGH", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	LogPerformance(context.Background(), log, "list_students", 1500*time.Millisecond, nil)
	assert.EqualValues(t, 1500, hook.LastEntry().Data["duration_ms"])
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
}
