package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mz310/FitProof/internal/core/domain"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("member123")
	require.NoError(t, err)
	assert.NotEqual(t, "member123", hash)
	assert.True(t, h.Verify("member123", hash))
	assert.False(t, h.Verify("member124", hash))
	assert.False(t, h.Verify("member123", "not-a-hash"))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j := NewJWTIssuer("secret", 0)
	user := &domain.User{ID: "u1", Email: "a@example.com", Name: "A", Role: domain.RoleTrainer}

	tok, err := j.Issue(user)
	require.NoError(t, err)

	actor, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "u1", Role: domain.RoleTrainer, Email: "a@example.com", Name: "A"}, *actor)
}

func TestJWTIssuer_TwelveHourExpiry(t *testing.T) {
	j := NewJWTIssuer("secret", 0)
	issuedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issuedAt }

	tok, err := j.Issue(&domain.User{ID: "u1", Role: domain.RoleMember})
	require.NoError(t, err)

	j.now = func() time.Time { return issuedAt.Add(12*time.Hour - time.Minute) }
	_, err = j.Verify(tok)
	require.NoError(t, err)

	j.now = func() time.Time { return issuedAt.Add(12*time.Hour + time.Minute) }
	_, err = j.Verify(tok)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestJWTIssuer_Rejects(t *testing.T) {
	j := NewJWTIssuer("secret", time.Hour)

	other, err := NewJWTIssuer("other-secret", time.Hour).Issue(&domain.User{ID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = j.Verify(other)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "wrong secret")

	_, err = j.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "garbage")

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.Verify(badRole)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "unknown role")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.Verify(noExp)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "missing exp")
}
