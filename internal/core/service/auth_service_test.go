package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

type stubUserRepo struct {
	users       map[string]*domain.User
	createCalls int
	findErr     error
	// createErr, when set, is returned by Create regardless of state.
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

// countingHasher wraps bcrypt at the minimum cost and records Hash calls.
type countingHasher struct {
	*BcryptHasher
	hashCalls int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashCalls++
	return h.BcryptHasher.Hash(password)
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *countingHasher) {
	hasher := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
	svc := NewAuthService(repo, hasher, NewJWTService("secret", time.Hour), zerolog.Nop())
	hasher.hashCalls = 0
	return svc, hasher
}

func TestAuthService_SignUp_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.SignUp(context.Background(), "Alice", "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected exactly one insert, got %d", repo.createCalls)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	cases := map[string]struct {
		name, email, password string
	}{
		"empty name":                       {"", "a@example.com", "pass1234"},
		"bad email":                        {"Alice", "not-an-email", "pass1234"},
		"short password":                   {"Alice", "a@example.com", "short"},
		"password over 72 bytes":           {"Alice", "a@example.com", strings.Repeat("a", 80)},
		"multibyte password over 72 bytes": {"Alice", "a@example.com", strings.Repeat("é", 40)},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStubUserRepo()
			svc, _ := newTestAuthService(repo)

			_, err := svc.SignUp(context.Background(), tc.name, tc.email, tc.password)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if repo.createCalls != 0 {
				t.Fatalf("validation failure must not insert")
			}
		})
	}
}

func TestAuthService_SignUp_PasswordAtBcryptLimit(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	password := strings.Repeat("a", 72)

	if _, err := svc.SignUp(context.Background(), "Alice", "alice@example.com", password); err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if _, err := svc.SignIn(context.Background(), "alice@example.com", password); err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
}

func TestBcryptHasher_TooLongIsValidationError(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(strings.Repeat("a", 80))
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAuthService_SignUp_DuplicateStopsBeforeInsert(t *testing.T) {
	repo := newStubUserRepo()
	svc, hasher := newTestAuthService(repo)

	if _, err := svc.SignUp(context.Background(), "Bob", "bob@example.com", "pass1234"); err != nil {
		t.Fatalf("first sign-up failed: %v", err)
	}
	hasher.hashCalls = 0

	_, err := svc.SignUp(context.Background(), "Bob", "bob@example.com", "other-pass")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if repo.createCalls != 1 {
		t.Fatalf("duplicate sign-up must not insert, create called %d times", repo.createCalls)
	}
	if hasher.hashCalls != 0 {
		t.Fatalf("duplicate sign-up must not hash the password")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
}

func TestAuthService_SignUp_ConstraintViolationIsDuplicate(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = domain.ErrDuplicateEmail
	svc, _ := newTestAuthService(repo)

	_, err := svc.SignUp(context.Background(), "Eve", "eve@example.com", "pass1234")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail from racing insert, got %v", err)
	}
}

func TestAuthService_SignUp_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection refused")
	svc, _ := newTestAuthService(repo)

	_, err := svc.SignUp(context.Background(), "Eve", "eve@example.com", "pass1234")
	if err == nil || errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected store error, got %v", err)
	}
	if repo.createCalls != 0 {
		t.Fatalf("store failure must not insert")
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.SignUp(context.Background(), "Carol", "carol@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}

	token, err := svc.SignIn(context.Background(), "carol@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["id"] != user.ID || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_SignIn_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.SignUp(context.Background(), "Dave", "dave@example.com", "goodpass"); err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}

	tokenA, errWrongPassword := svc.SignIn(context.Background(), "dave@example.com", "badpass1")
	tokenB, errUnknownEmail := svc.SignIn(context.Background(), "ghost@example.com", "goodpass")

	if !errors.Is(errWrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errUnknownEmail)
	}
	if tokenA != "" || tokenB != "" {
		t.Fatalf("no token may be issued on failure")
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.SignUp(context.Background(), "A", "a@example.com", "pass1234")
	_, _ = svc.SignUp(context.Background(), "B", "b@example.com", "pass1234")

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
