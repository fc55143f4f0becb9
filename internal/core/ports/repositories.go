package ports

import (
	"context"

	"github.com/mz310/FitProof/internal/core/domain"
)

// UserRepository persists accounts. Emails are stored normalised and are
// unique; Create returns an error wrapping domain.ErrConflict on collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

// DeviceRepository is the device registry.
type DeviceRepository interface {
	// FindActiveByCode matches code exactly against active devices only and
	// returns a *domain.NotFoundError when nothing matches.
	FindActiveByCode(ctx context.Context, code string) (*domain.Device, error)
	// ListActive returns active devices ordered by code.
	ListActive(ctx context.Context) ([]domain.Device, error)
	// Upsert inserts the device or updates the row with the same code.
	Upsert(ctx context.Context, device *domain.Device) error
}

// SessionRepository stores sessions and their append-only set log.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	// FindByID returns the session without its sets.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	// AppendSet durably adds one set; it must be a single atomic write.
	AppendSet(ctx context.Context, set *domain.Set) error
	// ListSets returns the session's sets in insertion order.
	ListSets(ctx context.Context, sessionID string) ([]domain.Set, error)
}

// LoginEventRepository is the append-only login audit log.
type LoginEventRepository interface {
	Record(ctx context.Context, event *domain.LoginEvent) error
	// ListByUser returns at most limit events for the user, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.LoginEvent, error)
}

// Store groups the repositories of a single storage backend.
type Store interface {
	Users() UserRepository
	Devices() DeviceRepository
	Sessions() SessionRepository
	LoginEvents() LoginEventRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
