package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"techstore/internal/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher mirrors catalog events to a Kafka topic for external
// consumers (search indexers, the storefront edge cache). It is wired
// only when KAFKA_BROKERS is configured; publish failures are logged
// and never propagate to the write path that raised the event.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaPublisher(brokers string, logger *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        "catalog-events",
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger,
	}
}

// Attach subscribes the publisher to the bus.
func (p *KafkaPublisher) Attach(bus *Bus) {
	bus.Subscribe(p.publish)
}

func (p *KafkaPublisher) publish(evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("Failed to encode catalog event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.Type),
		Value: payload,
	})
	if err != nil {
		p.logger.Error("Failed to publish catalog event %s: %v", evt.Type, err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
