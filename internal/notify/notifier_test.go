package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func sampleAlert() domain.LowStockAlert {
	return domain.LowStockAlert{
		StoreID: 3,
		Items: []domain.ReorderRecommendation{
			{Product: domain.Product{ID: 1}, CurrentStock: 0, Severity: domain.SeverityOutOfStock},
			{Product: domain.Product{ID: 4}, CurrentStock: 5, Severity: domain.SeverityHigh},
		},
		GeneratedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaNotifier_PublishesKeyedByStore(t *testing.T) {
	writer := &recordingWriter{}
	n := &KafkaNotifier{writer: writer, topic: "alerts"}

	require.NoError(t, n.NotifyLowStock(context.Background(), sampleAlert()))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "3", string(msg.Key))

	var event lowStockEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventTypeLowStock, event.EventType)
	assert.Equal(t, 1, event.OutOfStock)
	assert.NotEmpty(t, event.EventID)
	assert.Len(t, event.Alert.Items, 2)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, EventTypeLowStock, headers["event-type"])
	assert.Equal(t, event.EventID, headers["event-id"])

	require.NoError(t, n.Close())
	assert.True(t, writer.closed)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	n := &KafkaNotifier{writer: &recordingWriter{err: errors.New("leader not available")}, topic: "alerts"}

	err := n.NotifyLowStock(context.Background(), sampleAlert())
	assert.ErrorContains(t, err, "leader not available")
}

func TestNew_SelectsImplementation(t *testing.T) {
	_, isLog := New(config.NotifyConfig{}).(LogNotifier)
	assert.True(t, isLog)

	kafkaNotifier, isKafka := New(config.NotifyConfig{KafkaBrokers: []string{"localhost:9092"}, LowStockTopic: "alerts"}).(*KafkaNotifier)
	require.True(t, isKafka)
	assert.Equal(t, "alerts", kafkaNotifier.topic)
	assert.NoError(t, LogNotifier{}.NotifyLowStock(context.Background(), sampleAlert()))
}

func TestLogNotifier_ListsProductIDsInOneField(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	require.NoError(t, LogNotifier{}.NotifyLowStock(context.Background(), sampleAlert()))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, []any{float64(1), float64(4)}, entry["product_ids"])
	assert.Equal(t, float64(1), entry["out_of_stock"])
	assert.NotContains(t, buf.String(), `"product_id"`)
}
