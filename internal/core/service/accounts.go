package service

import (
	"context"
	"strings"
	"time"

	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

const minPasswordLen = 6

// accounts creates users; shared by public registration and admin creation.
type accounts struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
	newID  func() string
}

func (a accounts) create(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	var issues []domain.FieldIssue
	if email == "" {
		issues = append(issues, domain.FieldIssue{Field: "email", Message: "email is required"})
	}
	if len(password) < minPasswordLen {
		issues = append(issues, domain.FieldIssue{Field: "password", Message: "password must be at least 6 characters"})
	}
	if name == "" {
		issues = append(issues, domain.FieldIssue{Field: "name", Message: "name is required"})
	}
	if !role.Valid() {
		issues = append(issues, domain.FieldIssue{Field: "role", Message: "role must be one of: member trainer admin"})
	}
	if len(issues) > 0 {
		return nil, &domain.ValidationError{Message: "invalid user", Issues: issues}
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           a.newID(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    a.now(),
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
