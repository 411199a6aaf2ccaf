package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, existing := range r.accounts {
		if (account.Email != "" && existing.Email == account.Email) ||
			(account.PhoneNumber != "" && existing.PhoneNumber == account.PhoneNumber) {
			return nil, domain.ErrAccountExists
		}
	}
	r.seq++
	copy := cloneAccount(account)
	copy.ID = fmt.Sprintf("acc_%d", r.seq)
	r.accounts[copy.ID] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if (a.Email != "" && a.Email == identifier) || (a.PhoneNumber != "" && a.PhoneNumber == identifier) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) SetRefreshToken(_ context.Context, id, token string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.RefreshToken = token
	return nil
}

func (r *stubAccountRepo) SwapRefreshToken(_ context.Context, id, prev, next string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.RefreshToken != prev {
		return domain.ErrTokenReused
	}
	a.RefreshToken = next
	return nil
}

func (r *stubAccountRepo) ClearRefreshToken(_ context.Context, id string) error {
	if a, ok := r.accounts[id]; ok {
		a.RefreshToken = ""
	}
	return nil
}

func (r *stubAccountRepo) Activate(_ context.Context, id string) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Active = true
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, _ ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	return out, int64(len(out)), nil
}

type stubRecorder struct {
	events []domain.AuthEvent
}

func (r *stubRecorder) Record(event domain.AuthEvent) {
	r.events = append(r.events, event)
}

func (r *stubRecorder) kinds() []domain.AuthEventKind {
	out := make([]domain.AuthEventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func newTestAuthService(repo *stubAccountRepo, audit *stubRecorder) *AuthService {
	return NewAuthService(repo, TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
	}, audit, zerolog.Nop())
}

func registerFarmer(t *testing.T, svc *AuthService, phone string) *domain.Account {
	t.Helper()
	account, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Ravi",
		Category:    domain.CategoryFarmer,
		Password:    "Secret123",
		PhoneNumber: phone,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return account
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	account := registerFarmer(t, svc, "9999999999")

	if account.Active {
		t.Fatalf("new accounts must start inactive")
	}
	if account.PasswordHash == "Secret123" {
		t.Fatalf("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("Secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if account.RefreshToken != "" {
		t.Fatalf("new accounts must not carry a refresh token")
	}
}

func TestAuthService_Register_SaltedHashes(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	a := registerFarmer(t, svc, "1111111111")
	b := registerFarmer(t, svc, "2222222222")

	if a.PasswordHash == b.PasswordHash {
		t.Fatalf("identical passwords must produce distinct hashes")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input ports.RegisterInput
	}{
		{"missing name", ports.RegisterInput{Category: domain.CategoryFarmer, Password: "Secret123", Email: "a@x.com"}},
		{"short password", ports.RegisterInput{DisplayName: "A", Category: domain.CategoryFarmer, Password: "short", Email: "a@x.com"}},
		{"no identifiers", ports.RegisterInput{DisplayName: "A", Category: domain.CategoryFarmer, Password: "Secret123"}},
		{"admin category", ports.RegisterInput{DisplayName: "A", Category: domain.CategoryAdmin, Password: "Secret123", Email: "a@x.com"}},
		{"unknown category", ports.RegisterInput{DisplayName: "A", Category: "client", Password: "Secret123", Email: "a@x.com"}},
	}

	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	registerFarmer(t, svc, "9999999999")
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		DisplayName: "Other",
		Category:    domain.CategoryCompany,
		Password:    "Secret123",
		PhoneNumber: "9999999999",
	})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	audit := &stubRecorder{}
	svc := newTestAuthService(repo, audit)
	registered := registerFarmer(t, svc, "9999999999")

	pair, account, err := svc.Login(context.Background(), "9999999999", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected a full token pair")
	}
	if account.ID != registered.ID {
		t.Fatalf("unexpected account: %+v", account)
	}

	stored, _ := repo.FindByID(context.Background(), registered.ID)
	if stored.RefreshToken != pair.RefreshToken {
		t.Fatalf("refresh token not persisted")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(pair.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims["sub"] != registered.ID || claims["category"] != string(domain.CategoryFarmer) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if kinds := audit.kinds(); len(kinds) == 0 || kinds[len(kinds)-1] != domain.AuthEventLogin {
		t.Fatalf("expected login audit event, got %v", kinds)
	}
}

func TestAuthService_Login_UnknownIdentifier(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	// Unknown identifier and wrong password must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "0000000000", "whatever1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	registerFarmer(t, svc, "9999999999")

	if _, _, err := svc.Login(context.Background(), "9999999999", "WrongPass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingIdentifier(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	if _, _, err := svc.Login(context.Background(), "", "Secret123"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Rotate_SingleActiveToken(t *testing.T) {
	repo := newStubAccountRepo()
	audit := &stubRecorder{}
	svc := newTestAuthService(repo, audit)
	registerFarmer(t, svc, "9999999999")

	first, _, err := svc.Login(context.Background(), "9999999999", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	second, _, err := svc.Rotate(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("rotation must mint a new refresh token")
	}

	// The superseded token is now a reuse signal.
	if _, _, err := svc.Rotate(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused, got %v", err)
	}

	found := false
	for _, k := range audit.kinds() {
		if k == domain.AuthEventReuseDetected {
			found = true
		}
	}
	if !found {
		t.Fatalf("reuse must be recorded in the audit trail, got %v", audit.kinds())
	}

	// The current token still works.
	if _, _, err := svc.Rotate(context.Background(), second.RefreshToken); err != nil {
		t.Fatalf("current token rejected: %v", err)
	}
}

func TestAuthService_Rotate_GarbageToken(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})

	if _, _, err := svc.Rotate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, _, err := svc.Rotate(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
}

func TestAuthService_Rotate_WrongSecret(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	account := registerFarmer(t, svc, "9999999999")

	// An access token must never pass as a refresh token.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": account.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, _ := forged.SignedString([]byte("access-secret"))

	if _, _, err := svc.Rotate(context.Background(), signed); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Logout_InvalidatesRefresh(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	account := registerFarmer(t, svc, "9999999999")

	pair, _, err := svc.Login(context.Background(), "9999999999", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), account.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	// Idempotent: a second logout is fine.
	if err := svc.Logout(context.Background(), account.ID); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}

	if _, _, err := svc.Rotate(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenReused) {
		t.Fatalf("expected ErrTokenReused after logout, got %v", err)
	}
}

func TestAuthService_VerifyAccess_RoundTrip(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	registered := registerFarmer(t, svc, "9999999999")

	pair, _, err := svc.Login(context.Background(), "9999999999", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	account, err := svc.VerifyAccess(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if account.ID != registered.ID {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.PasswordHash != "" || account.RefreshToken != "" {
		t.Fatalf("credential material leaked into resolved account")
	}
}

func TestAuthService_VerifyAccess_Expired(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	account := registerFarmer(t, svc, "9999999999")

	// Correctly signed but already expired.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": account.ID,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, _ := expired.SignedString([]byte("access-secret"))

	if _, err := svc.VerifyAccess(context.Background(), signed); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestAuthService_VerifyAccess_DeletedAccount(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newTestAuthService(repo, &stubRecorder{})
	account := registerFarmer(t, svc, "9999999999")

	pair, _, err := svc.Login(context.Background(), "9999999999", "Secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	delete(repo.accounts, account.ID)

	if _, err := svc.VerifyAccess(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for deleted account, got %v", err)
	}
}
