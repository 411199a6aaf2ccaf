package ports

import (
	"context"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	DisplayName string
	Category    domain.Category
	Password    string
	Email       string
	PhoneNumber string
}

// TokenPair is an access/refresh token set minted by the issuer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the credential and token issuer.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)

	// Login validates identifier (email or phone) + password and mints a
	// token pair, persisting the refresh token on the account.
	Login(ctx context.Context, identifier, password string) (TokenPair, *domain.Account, error)

	// Rotate exchanges a valid, current refresh token for a fresh pair.
	// Presenting a superseded token fails with domain.ErrTokenReused.
	Rotate(ctx context.Context, refreshToken string) (TokenPair, *domain.Account, error)

	// Logout invalidates the account's refresh token. Idempotent.
	Logout(ctx context.Context, accountID string) error
}

// AccessVerifier resolves a raw access token to the account it identifies.
// Used by the request authenticator middleware on every protected request.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, token string) (*domain.Account, error)
}
