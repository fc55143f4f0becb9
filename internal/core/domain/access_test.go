package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccessSession(t *testing.T) {
	s := &Session{ID: "s1", UserID: "owner"}

	tests := []struct {
		name  string
		actor string
		role  Role
		want  bool
	}{
		{"owner member", "owner", RoleMember, true},
		{"other member", "someone", RoleMember, false},
		{"trainer", "someone", RoleTrainer, true},
		{"admin", "someone", RoleAdmin, true},
		{"unknown role", "someone", Role("guest"), false},
		{"empty actor", "", RoleMember, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessSession(s, tt.actor, tt.role))
		})
	}

	assert.False(t, CanAccessSession(nil, "owner", RoleAdmin))
}

func TestCanPerform(t *testing.T) {
	assert.True(t, CanPerform(RoleAdmin, RoleAdmin))
	assert.False(t, CanPerform(RoleTrainer, RoleAdmin))
	assert.True(t, CanPerform(RoleMember, AnyRole...))
	assert.False(t, CanPerform(Role(""), AnyRole...))
	assert.False(t, CanPerform(RoleAdmin))
}

func TestAnyRole_IndependentOfRoles(t *testing.T) {
	require.Equal(t, Roles, AnyRole)
	require.NotEmpty(t, AnyRole)
	assert.NotSame(t, &Roles[0], &AnyRole[0])
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Trainer ")
	require.NoError(t, err)
	assert.Equal(t, RoleTrainer, r)

	_, err = ParseRole("owner")
	require.ErrorIs(t, err, ErrValidation)

	assert.True(t, RoleMember.Valid())
	assert.False(t, Role("Admin").Valid())
}

func TestErrorKinds(t *testing.T) {
	nf := NewNotFound("device", "DEV-404")
	assert.Equal(t, "device not found: DEV-404", nf.Error())
	assert.True(t, errors.Is(nf, ErrNotFound))

	assert.True(t, errors.Is(ErrEmailTaken, ErrConflict))
	assert.True(t, errors.Is(ErrInvalidCredentials, ErrForbidden))
	assert.True(t, errors.Is(ErrInvalidToken, ErrUnauthorized))
	assert.False(t, errors.Is(ErrInvalidCredentials, ErrUnauthorized))

	ve := &ValidationError{Message: "invalid user", Issues: []FieldIssue{{Field: "email", Message: "email is required"}}}
	assert.True(t, errors.Is(ve, ErrValidation))
	assert.Equal(t, "invalid user: email is required", ve.Error())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}
