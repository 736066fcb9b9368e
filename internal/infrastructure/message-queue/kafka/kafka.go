package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
)

// Producer publishes keyed messages to a single topic.
type Producer struct {
	writer *kafka.Writer
}

func CreateKafkaProducer(config *config.Config) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.KafkaConfig.BrokerAddress),
			Topic:        config.KafkaConfig.BrokerTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
