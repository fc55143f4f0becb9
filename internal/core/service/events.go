package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/pkg/metrics"
)

const publishTimeout = 5 * time.Second

type sessionStartedEvent struct {
	SessionID  string    `json:"sessionId"`
	UserID     string    `json:"userId"`
	DeviceID   string    `json:"deviceId"`
	DeviceCode string    `json:"deviceCode"`
	StartedAt  time.Time `json:"startedAt"`
}

type setLoggedEvent struct {
	SessionID     string         `json:"sessionId"`
	SetID         string         `json:"setId"`
	UserID        string         `json:"userId"`
	LoggedBy      string         `json:"loggedBy"`
	Type          domain.SetType `json:"type"`
	Volume        float64        `json:"volume"`
	TotalVolume   float64        `json:"totalVolume"`
	TotalDuration float64        `json:"totalDuration"`
	LoggedAt      time.Time      `json:"loggedAt"`
}

type loginAttemptEvent struct {
	UserID    *string   `json:"userId"`
	Success   bool      `json:"success"`
	IP        string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// publish sends an event on a context detached from the request's
// cancellation. Failures are logged and counted, never returned.
func publish(ctx context.Context, pub ports.EventPublisher, log zerolog.Logger, topic, key string, payload any) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := pub.Publish(ctx, topic, key, payload); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		log.Warn().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic, "ok").Inc()
}
