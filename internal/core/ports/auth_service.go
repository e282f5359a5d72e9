package ports

import (
	"context"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// PasswordHasher hashes and verifies passwords with a salted one-way function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(token string) (domain.Identity, error)
}
