package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	before := time.Now().UTC()
	evt := NewBaseEvent("anomaly.batch.evaluated", aggregateID, "EvaluationBatch")
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, evt.EventID())
	assert.Equal(t, "anomaly.batch.evaluated", evt.EventType())
	assert.Equal(t, aggregateID, evt.AggregateID())
	assert.Equal(t, "EvaluationBatch", evt.AggregateType())
	assert.False(t, evt.OccurredAt().Before(before))
	assert.False(t, evt.OccurredAt().After(after))
}

func TestBaseEvent_EmbeddedJSON(t *testing.T) {
	type alert struct {
		BaseEvent
		RiskLevel string `json:"risk_level"`
	}

	evt := alert{BaseEvent: NewBaseEvent("anomaly.alert.raised", uuid.New(), "EvaluationBatch"), RiskLevel: "High"}

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "anomaly.alert.raised", decoded["event_type"])
	assert.Equal(t, "High", decoded["risk_level"])
	assert.Equal(t, evt.AggregateID().String(), decoded["aggregate_id"])
}

func TestEventCollector(t *testing.T) {
	var c EventCollector
	assert.Empty(t, c.Events())

	first := NewBaseEvent("a", uuid.New(), "X")
	second := NewBaseEvent("b", uuid.New(), "X")
	c.Record(first)
	c.Record(second)

	assert.Len(t, c.Events(), 2)

	drained := c.ClearEvents()
	assert.Equal(t, []DomainEvent{first, second}, drained)
	assert.Empty(t, c.Events())
}
