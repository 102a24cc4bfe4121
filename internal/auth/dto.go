package auth

import (
	"time"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
)

// LoginInput carries dashboard login credentials.
type LoginInput struct {
	Username string
	Password string
}

// RefreshInput exchanges an expired access token plus a refresh token for a
// fresh pair.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// TokenPair is the credential bundle handed to clients.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *models.User `json:"user,omitempty"`
}
