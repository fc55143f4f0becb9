package ports

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys for a bounded time.
type IdempotencyStore interface {
	// Claim records key under scope and reports whether this call was the
	// first to do so.
	Claim(ctx context.Context, scope, key string) (bool, error)
	// Release forgets a claimed key so that a failed request can be retried.
	Release(ctx context.Context, scope, key string) error
}

// EventPublisher emits domain events to an external broker. Publishing is
// best effort: callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

// Event topics.
const (
	TopicSessionStarted = "session.started"
	TopicSetLogged      = "session.set_logged"
	TopicLogin          = "auth.login"
)

// KeyedExecutor runs functions so that calls sharing a key never overlap and
// run in submission order.
type KeyedExecutor interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// RateDecision is the outcome of one rate limit check.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

// RateLimiter takes one token from the bucket identified by key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
