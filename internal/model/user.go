package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AuthClaims is the decoded token payload attached to the request context.
// The subject is always the numeric user id; usernames are mutable display
// data and are never trusted as an identity key.
type AuthClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

type TokenResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
	User      AuthUser `json:"user"`
}
