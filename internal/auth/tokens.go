package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/models"
)

const (
	tokenIssuer  = "homely"
	accessToken  = "access"
	refreshToken = "refresh"
)

// Claims represents JWT claims
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates the access/refresh token pair.
type Authenticator struct {
	db         *gorm.DB
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthenticator creates an authenticator signing tokens with jwtSecret.
func NewAuthenticator(db *gorm.DB, jwtSecret string, accessTTL, refreshTTL time.Duration) *Authenticator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &Authenticator{
		db:         db,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// TokenPair is the access/refresh pair issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login authenticates a user and returns a token pair
func (a *Authenticator) Login(username, password string) (*models.User, *TokenPair, error) {
	var user models.User
	result := a.db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with non-existent username", "username", username)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("database error: %w", result.Error)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("Login attempt with incorrect password", "username", username)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := a.IssuePair(&user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	slog.Info("User logged in", "user_id", user.UID, "username", user.Username)
	return &user, pair, nil
}

// IssuePair generates a fresh access/refresh pair for a user.
func (a *Authenticator) IssuePair(user *models.User) (*TokenPair, error) {
	access, err := a.generateToken(user, accessToken, a.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.generateToken(user, refreshToken, a.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (a *Authenticator) generateToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    user.UID.String(),
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Authenticator) validateToken(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: wrong token type", ErrUnauthorized)
	}
	return claims, nil
}

// VerifyAccess validates an access token.
func (a *Authenticator) VerifyAccess(tokenString string) (*Claims, error) {
	return a.validateToken(tokenString, accessToken)
}

// Refresh exchanges a valid refresh token for a new access token.
func (a *Authenticator) Refresh(refreshString string) (string, error) {
	claims, err := a.validateToken(refreshString, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := a.loadUser(claims.UserID)
	if err != nil {
		return "", err
	}
	return a.generateToken(user, accessToken, a.accessTTL)
}

// UserForAccessToken validates an access token and loads its user.
func (a *Authenticator) UserForAccessToken(tokenString string) (*models.User, error) {
	claims, err := a.VerifyAccess(tokenString)
	if err != nil {
		return nil, err
	}
	return a.loadUser(claims.UserID)
}

func (a *Authenticator) loadUser(id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if result := a.db.First(&user, "uid = ?", userID); result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}
