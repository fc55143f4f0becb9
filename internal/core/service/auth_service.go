package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
	"github.com/mz310/FitProof/internal/pkg/metrics"
)

// dummyHash is compared against when the email is unknown so that both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// AuthService implements registration, login and the login audit read path.
type AuthService struct {
	accounts accounts
	users    ports.UserRepository
	audit    ports.LoginEventRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	events   ports.EventPublisher
	logger   zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	audit ports.LoginEventRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts: accounts{
			users:  users,
			hasher: hasher,
			now:    func() time.Time { return time.Now().UTC() },
			newID:  uuid.NewString,
		},
		users:  users,
		audit:  audit,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

// Register creates a member account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := s.accounts.create(ctx, input.Email, input.Password, input.Name, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login checks credentials and records the attempt before answering. Wrong
// password and unknown email produce the same error.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	event := &domain.LoginEvent{
		ID:        uuid.NewString(),
		IP:        input.IP,
		UserAgent: input.UserAgent,
		CreatedAt: time.Now().UTC(),
	}

	result := "unknown_email"
	if user != nil {
		id := user.ID
		event.UserID = &id
		event.Success = s.hasher.Verify(input.Password, user.PasswordHash)
		result = "bad_password"
		if event.Success {
			result = "success"
		}
	} else {
		_ = s.hasher.Verify(input.Password, dummyHash)
	}

	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Error().Err(err).Msg("failed to record login event")
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()

	publish(ctx, s.events, s.logger, ports.TopicLogin, email, loginAttemptEvent{
		UserID:    event.UserID,
		Success:   event.Success,
		IP:        event.IP,
		Timestamp: event.CreatedAt,
	})

	if !event.Success {
		s.logger.Info().Str("result", result).Str("ip", input.IP).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// History returns the user's most recent login events, newest first.
func (s *AuthService) History(ctx context.Context, userID string) ([]domain.LoginEvent, error) {
	events, err := s.audit.ListByUser(ctx, userID, domain.HistoryLimit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.LoginEvent{}
	}
	return events, nil
}
