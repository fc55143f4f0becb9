package ports

import "github.com/mz310/FitProof/internal/core/domain"

// PasswordHasher hashes and checks credentials. Stored hashes never leave
// the implementation other than through Hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(candidate, hash string) bool
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	// Verify returns the identity encoded in token or an error wrapping
	// domain.ErrUnauthorized.
	Verify(token string) (*domain.Actor, error)
}
