package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	minPasswordLength = 8
)

// TokenConfig carries the signing material for both token kinds. Each kind
// has its own secret so a leaked access secret cannot forge refresh tokens.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// AuthService implements registration, login, refresh-token rotation,
// logout, and access-token verification.
type AuthService struct {
	repo   ports.AccountRepository
	tokens TokenConfig
	audit  ports.AuditRecorder
	log    zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, tokens TokenConfig, audit ports.AuditRecorder, log zerolog.Logger) *AuthService {
	if tokens.AccessTTL <= 0 {
		tokens.AccessTTL = defaultAccessTTL
	}
	if tokens.RefreshTTL <= 0 {
		tokens.RefreshTTL = defaultRefreshTTL
	}
	return &AuthService{repo: repo, tokens: tokens, audit: audit, log: log}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if input.DisplayName == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if input.Email == "" && input.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: email or phone number is required", domain.ErrValidation)
	}
	// Admin accounts are provisioned out-of-band, never via self-registration.
	if input.Category != domain.CategoryFarmer && input.Category != domain.CategoryCompany {
		return nil, fmt.Errorf("%w: category must be farmer or company", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Category:     input.Category,
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		Active:       false,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Str("category", string(created.Category)).Msg("account registered")
	return created, nil
}

// Login validates the identifier/password pair and mints a token pair.
// Unknown identifier and wrong password both fail with ErrInvalidCredentials
// so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (ports.TokenPair, *domain.Account, error) {
	if identifier == "" {
		return ports.TokenPair{}, nil, fmt.Errorf("%w: email or phone number is required", domain.ErrValidation)
	}
	if password == "" {
		return ports.TokenPair{}, nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	account, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(domain.AuthEvent{Identifier: identifier, Kind: domain.AuthEventLoginFailed, Note: "unknown identifier"})
			return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return ports.TokenPair{}, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.record(domain.AuthEvent{AccountID: account.ID, Kind: domain.AuthEventLoginFailed, Note: "password mismatch"})
		return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.mintPair(account)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	// Single session per account: the previous refresh token is superseded.
	if err := s.repo.SetRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		return ports.TokenPair{}, nil, fmt.Errorf("persist refresh token: %w", err)
	}
	account.RefreshToken = pair.RefreshToken

	s.record(domain.AuthEvent{AccountID: account.ID, Kind: domain.AuthEventLogin})
	s.log.Info().Str("account_id", account.ID).Str("category", string(account.Category)).Msg("login succeeded")

	return pair, account, nil
}

// Rotate exchanges a presented refresh token for a fresh pair. The stored
// token is replaced with a conditional write keyed on the presented value,
// so two racing rotations cannot both succeed; the loser is reported as
// reuse.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (ports.TokenPair, *domain.Account, error) {
	if refreshToken == "" {
		return ports.TokenPair{}, nil, domain.ErrUnauthenticated
	}

	claims, err := parseToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		return ports.TokenPair{}, nil, domain.ErrUnauthenticated
	}

	accountID, _ := claims["sub"].(string)
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return ports.TokenPair{}, nil, domain.ErrUnauthenticated
		}
		return ports.TokenPair{}, nil, err
	}

	pair, err := s.mintPair(account)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	if err := s.repo.SwapRefreshToken(ctx, account.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, domain.ErrTokenReused) {
			s.record(domain.AuthEvent{AccountID: account.ID, Kind: domain.AuthEventReuseDetected, Note: "presented token does not match stored token"})
			s.log.Warn().Str("account_id", account.ID).Msg("refresh token reuse detected")
			return ports.TokenPair{}, nil, domain.ErrTokenReused
		}
		return ports.TokenPair{}, nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	account.RefreshToken = pair.RefreshToken

	s.record(domain.AuthEvent{AccountID: account.ID, Kind: domain.AuthEventRefresh})
	return pair, account, nil
}

// Logout invalidates the stored refresh token. Logging out an account that
// holds no token is not an error.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if err := s.repo.ClearRefreshToken(ctx, accountID); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	s.record(domain.AuthEvent{AccountID: accountID, Kind: domain.AuthEventLogout})
	return nil
}

// VerifyAccess validates an access token and resolves the account it names.
// The returned account is sanitized: credential material never reaches the
// request context.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := parseToken(token, s.tokens.AccessSecret)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	accountID, _ := claims["sub"].(string)
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: invalid access token", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	return account.Sanitized(), nil
}

func (s *AuthService) mintPair(account *domain.Account) (ports.TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      account.ID,
		"email":    account.Email,
		"name":     account.DisplayName,
		"category": string(account.Category),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokens.AccessTTL).Unix(),
	})
	accessSigned, err := access.SignedString([]byte(s.tokens.AccessSecret))
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	// jti makes every minted refresh token distinct even within one second,
	// which the stored-token comparison depends on.
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": account.ID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokens.RefreshTTL).Unix(),
	})
	refreshSigned, err := refresh.SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return ports.TokenPair{AccessToken: accessSigned, RefreshToken: refreshSigned}, nil
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	s.audit.Record(event)
}

// parseToken verifies signature and expiry, pinning the signing method to
// HS256 so an attacker cannot downgrade to "none" or swap algorithms.
func parseToken(raw, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
