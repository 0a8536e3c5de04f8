package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// TokenNotValidCode is the machine-readable code returned for expired or
// malformed tokens. Clients match on it rather than the HTTP status.
const TokenNotValidCode = "token_not_valid"

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
