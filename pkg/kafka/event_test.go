package kafka

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleCompletedPayload struct {
	SaleID string `json:"sale_id"`
	Total  int64  `json:"total"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	payload := saleCompletedPayload{SaleID: "sale-1", Total: 2500}

	event, err := NewEvent("sale.completed", "sale-1", "sale", "pos-service", payload)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(event.EventID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "sale.completed", event.EventType)
	assert.Equal(t, "sale-1", event.AggregateID)
	assert.Equal(t, "sale", event.AggregateType)
	assert.Equal(t, "pos-service", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)
	assert.NotNil(t, event.Metadata)
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("sale.completed", "sale-1", "sale", "pos-service", make(chan int))
	assert.Error(t, err)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	event, err := NewEvent("sale.completed", "sale-1", "sale", "pos-service", nil)
	require.NoError(t, err)

	assert.Same(t, event, event.WithCorrelationID("corr-1"))
	assert.Equal(t, "corr-1", event.CorrelationID)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	original, err := NewEvent("sale.completed", "sale-1", "sale", "pos-service",
		saleCompletedPayload{SaleID: "sale-1", Total: 2500})
	require.NoError(t, err)

	raw, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, original.EventID, decoded.EventID)
	assert.Equal(t, original.EventType, decoded.EventType)

	var payload saleCompletedPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "sale-1", payload.SaleID)
	assert.Equal(t, int64(2500), payload.Total)
}

func TestUnmarshalEvent_InvalidJSON(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}
