package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/models"
)

// GoogleClaims is the subset of a Google ID token the conversion needs.
type GoogleClaims struct {
	Subject   string
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Surname   string `json:"family_name"`
}

// GoogleVerifier validates Google ID tokens against the issuer's keys.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawToken string) (*GoogleClaims, error)
}

type oidcGoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier discovers the issuer and returns a verifier expecting
// clientID as the token audience.
func NewGoogleVerifier(ctx context.Context, issuerURL, clientID string) (GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &oidcGoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *oidcGoogleVerifier) Verify(ctx context.Context, rawToken string) (*GoogleClaims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	var claims GoogleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse ID token claims: %w", err)
	}
	claims.Subject = idToken.Subject
	return &claims, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity to a local
// account, creating one on first sign-in.
func FindOrCreateGoogleUser(db *gorm.DB, claims *GoogleClaims) (*models.User, error) {
	var user models.User
	if err := db.Where("google_subject = ?", claims.Subject).First(&user).Error; err == nil {
		return &user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Link by email for accounts created with a password first.
	if claims.Email != "" {
		if err := db.Where("email = ?", claims.Email).First(&user).Error; err == nil {
			user.GoogleSubject = claims.Subject
			if err := db.Save(&user).Error; err != nil {
				return nil, fmt.Errorf("failed to link Google account: %w", err)
			}
			return &user, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	user = models.User{
		Username:      usernameFromEmail(claims.Email),
		Email:         claims.Email,
		FirstName:     claims.GivenName,
		LastName:      claims.Surname,
		GoogleSubject: claims.Subject,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("Created user from Google sign-in", "user_id", user.UID, "email", user.Email)
	return &user, nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
