package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts the first 72 bytes of a password.
	maxPasswordBytes = 72
)

var fieldValidator = validator.New()

// AuthService implements sign-up, sign-in and the public user listing.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger

	// dummyHash is compared against on unknown emails so both failure paths
	// cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	s := &AuthService{repo: repo, hasher: hasher, tokens: tokens, logger: logger}
	if h, err := hasher.Hash(uuid.NewString()); err == nil {
		s.dummyHash = h
	}
	return s
}

// SignUp creates an account. It stops at the first failure: a duplicate email
// is reported before any hashing or insert takes place.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateSignUp(name, email, password); err != nil {
		return nil, err
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// A concurrent sign-up can pass the check above; the store's unique
	// constraint then yields ErrDuplicateEmail here.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, nil
}

// SignIn verifies credentials and returns a signed access token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.dummyHash != "" {
				_ = s.hasher.Compare(s.dummyHash, password)
			}
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("user signed in")
	return token, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func validateSignUp(name, email, password string) error {
	var details []string
	if name == "" {
		details = append(details, "name is required")
	}
	if err := fieldValidator.Var(email, "required,email"); err != nil {
		details = append(details, "email must be a valid email")
	}
	if len(password) < minPasswordLength {
		details = append(details, "password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		details = append(details, "password must be at most 72 bytes")
	}
	if len(details) > 0 {
		return domain.NewValidationError(details...)
	}
	return nil
}
