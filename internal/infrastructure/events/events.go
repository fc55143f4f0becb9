// Package events publishes domain events to Kafka or RabbitMQ as JSON.
package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/ports"
)

// Drivers understood by New.
const (
	DriverNone  = "none"
	DriverKafka = "kafka"
	DriverAMQP  = "amqp"
)

type Config struct {
	Driver       string
	KafkaBrokers []string
	AMQPURL      string
}

// New returns the publisher selected by cfg.Driver.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (ports.EventPublisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverNone:
		return Noop{}, nil
	case DriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("events: kafka driver needs at least one broker")
		}
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("publishing events to kafka")
		return NewKafkaPublisher(cfg.KafkaBrokers), nil
	case DriverAMQP:
		pub, err := DialAMQP(ctx, cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("publishing events to rabbitmq")
		return pub, nil
	default:
		return nil, fmt.Errorf("events: unknown driver %q", cfg.Driver)
	}
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                       { return nil }
