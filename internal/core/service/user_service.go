package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

// UserService implements admin account management.
type UserService struct {
	accounts accounts
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{
		accounts: accounts{
			users:  users,
			hasher: hasher,
			now:    func() time.Time { return time.Now().UTC() },
			newID:  uuid.NewString,
		},
		users:  users,
		logger: logger,
	}
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Create adds an account with the requested role, member when empty.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}

	user, err := s.accounts.create(ctx, input.Email, input.Password, input.Name, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created by admin")
	return user, nil
}

// UpdateRole changes a user's role and returns the updated account.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, &domain.ValidationError{
			Message: "invalid role",
			Issues:  []domain.FieldIssue{{Field: "role", Message: "role must be one of: member trainer admin"}},
		}
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("role", string(role)).Msg("user role updated")
	return user, nil
}
