package domain

import "time"

// User models an account holder. PasswordHash is never serialised.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller attached to a request by the auth middleware.
type Identity struct {
	UserID string
	Email  string
}
