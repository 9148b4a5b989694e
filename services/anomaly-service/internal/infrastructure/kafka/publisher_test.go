package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgkafka "github.com/infrarisk/sentinel/pkg/kafka"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/domain/event"
	"github.com/infrarisk/sentinel/services/anomaly-service/internal/infrastructure/kafka"
)

type fakeProducer struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.topic = topic
	f.messages = append(f.messages, messages...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	pub := kafka.NewPublisher(producer, "anomaly.events", discardLogger())

	batchID := uuid.New()
	now := time.Now().UTC()
	summary := event.NewBatchEvaluated(batchID, "upload", "v1", 3, 1, map[string]int{"High": 1, "Moderate": 0, "Low": 2}, now)
	alert := event.NewAnomalyAlertRaised(batchID, 2, "High", -0.8, "10.0.0.9", "", "", now)

	require.NoError(t, pub.Publish(context.Background(), summary, alert))

	assert.Equal(t, "anomaly.events", producer.topic)
	require.Len(t, producer.messages, 2)
	for _, m := range producer.messages {
		assert.Equal(t, batchID.String(), string(m.Key))
		assert.Equal(t, "EvaluationBatch", m.Headers["aggregate_type"])
	}
	assert.Equal(t, event.EventTypeBatchEvaluated, producer.messages[0].Headers["event_type"])
	assert.Equal(t, event.EventTypeAnomalyAlertRaised, producer.messages[1].Headers["event_type"])
	assert.Equal(t, alert.EventID().String(), producer.messages[1].Headers["event_id"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(producer.messages[1].Value, &decoded))
	assert.Equal(t, "High", decoded["risk_level"])
	assert.Equal(t, "10.0.0.9", decoded["ip_address"])
	assert.Equal(t, float64(2), decoded["position"])
	assert.Equal(t, event.EventTypeAnomalyAlertRaised, decoded["event_type"])
}

func TestPublisher_NoEvents(t *testing.T) {
	producer := &fakeProducer{err: errors.New("should not be called")}
	pub := kafka.NewPublisher(producer, "anomaly.events", discardLogger())

	assert.NoError(t, pub.Publish(context.Background()))
}

func TestPublisher_ProducerError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("leader not available")}
	pub := kafka.NewPublisher(producer, "anomaly.events", discardLogger())

	evt := event.NewBatchEvaluated(uuid.New(), "stream", "v1", 1, 0, nil, time.Now())
	err := pub.Publish(context.Background(), evt)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "anomaly.events")
}
