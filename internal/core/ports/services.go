package ports

import (
	"context"

	"github.com/mz310/FitProof/internal/core/domain"
)

// RegisterInput is a public sign-up request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput carries credentials plus the client details kept in the audit log.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// AuthResult is a signed token together with the account it was issued for.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	History(ctx context.Context, userID string) ([]domain.LoginEvent, error)
}

// CreateUserInput is an admin-initiated account creation. An empty Role
// means member.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}

// StartSessionInput holds both ways a device code can be entered. QRCode
// wins when both are non-blank.
type StartSessionInput struct {
	QRCode     string
	DeviceCode string
}

type SessionService interface {
	Start(ctx context.Context, actor domain.Actor, input StartSessionInput) (*domain.Session, *domain.Device, error)
	// LogSet appends a set and returns the session with recomputed totals.
	// A non-empty idempotencyKey already seen for the session returns the
	// current aggregate without appending.
	LogSet(ctx context.Context, actor domain.Actor, sessionID string, input domain.SetInput, idempotencyKey string) (*domain.Session, error)
	Get(ctx context.Context, actor domain.Actor, sessionID string) (*domain.Session, error)
	ListDevices(ctx context.Context) ([]domain.Device, error)
}
