package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const EventTypeLowStock = "inventory.low_stock"

// Notifier delivers low-stock alerts
type Notifier interface {
	NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) error
	Close() error
}

// New returns a kafka notifier when brokers are configured and a log-only
// notifier otherwise.
func New(cfg config.NotifyConfig) Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info().Msg("notify: no kafka brokers configured, low-stock alerts are logged only")
		return LogNotifier{}
	}
	return NewKafkaNotifier(cfg.KafkaBrokers, cfg.LowStockTopic)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes one message per alert, keyed by store so a store's
// alerts stay ordered on one partition.
type KafkaNotifier struct {
	writer messageWriter
	topic  string
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
	}
	return &KafkaNotifier{writer: writer, topic: topic}
}

type lowStockEvent struct {
	EventID    string               `json:"event_id"`
	EventType  string               `json:"event_type"`
	OutOfStock int                  `json:"out_of_stock"`
	Alert      domain.LowStockAlert `json:"alert"`
}

func (n *KafkaNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) error {
	event := lowStockEvent{
		EventID:    uuid.NewString(),
		EventType:  EventTypeLowStock,
		OutOfStock: alert.OutOfStockCount(),
		Alert:      alert,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal low-stock alert: %w", err)
	}

	storeKey := strconv.FormatInt(alert.StoreID, 10)
	message := kafka.Message{
		Key:   []byte(storeKey),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventTypeLowStock)},
			{Key: "event-id", Value: []byte(event.EventID)},
			{Key: "store-id", Value: []byte(storeKey)},
		},
	}

	if err := n.writer.WriteMessages(ctx, message); err != nil {
		log.Error().Err(err).Int64("store_id", alert.StoreID).Str("topic", n.topic).Msg("Failed to publish low-stock alert")
		return fmt.Errorf("failed to publish low-stock alert: %w", err)
	}

	log.Info().Int64("store_id", alert.StoreID).Str("event_id", event.EventID).
		Int("items", len(alert.Items)).Msg("Published low-stock alert")
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier writes alerts to the log only
type LogNotifier struct{}

func (LogNotifier) NotifyLowStock(ctx context.Context, alert domain.LowStockAlert) error {
	ids := make([]int64, len(alert.Items))
	for i, item := range alert.Items {
		ids[i] = item.Product.ID
	}
	log.Warn().Int64("store_id", alert.StoreID).
		Int("items", len(alert.Items)).
		Int("out_of_stock", alert.OutOfStockCount()).
		Ints64("product_ids", ids).
		Msg("low-stock alert")
	return nil
}

func (LogNotifier) Close() error { return nil }
