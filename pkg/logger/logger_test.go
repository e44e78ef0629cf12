package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("pos-service", "info", &buf)

	l.Info("checkout complete", slog.String("sale_id", "sale-1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pos-service", entry["service"])
	assert.Equal(t, "checkout complete", entry["msg"])
	assert.Equal(t, "sale-1", entry["sale_id"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("pos-service", "warn", &buf)

	l.Info("suppressed")
	assert.Zero(t, buf.Len())

	l.Warn("emitted")
	assert.Contains(t, buf.String(), "emitted")
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("pos-service", "verbose", &buf)

	l.Debug("suppressed")
	assert.Zero(t, buf.Len())

	l.Info("emitted")
	assert.Contains(t, buf.String(), "emitted")
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-7")
	assert.Equal(t, "corr-7", CorrelationIDFromContext(ctx))
}

func TestCorrelationID_MissingIsEmpty(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestRegisterID_RoundTrip(t *testing.T) {
	ctx := WithRegisterID(context.Background(), "reg-3")
	assert.Equal(t, "reg-3", RegisterIDFromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("pos-service", "info", &buf)
	ctx := NewContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
}

func TestWithContext_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("pos-service", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-9")
	ctx = WithRegisterID(ctx, "reg-1")

	WithContext(ctx, base).Info("sale submitted")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-9", entry["correlation_id"])
	assert.Equal(t, "reg-1", entry["register_id"])
}

func TestWithContext_NoFieldsWithoutContextValues(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("pos-service", "info", &buf)

	WithContext(context.Background(), base).Info("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "correlation_id")
	assert.NotContains(t, entry, "register_id")
}
