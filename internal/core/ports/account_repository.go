package ports

import (
	"context"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// ListAccountsFilter carries query parameters for listing accounts.
type ListAccountsFilter struct {
	Category string // optional: filter by category
	Active   *bool  // optional: filter by activation state
	Page     int    // 1-based
	Limit    int    // max rows per page (capped at 100 by the service)
}

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// FindByIdentifier matches the identifier against email OR phone number
	// in a single query.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token,
	// superseding any previous session.
	SetRefreshToken(ctx context.Context, id, token string) error

	// SwapRefreshToken replaces the stored refresh token with next only if it
	// currently equals prev, in one conditional write. Returns
	// domain.ErrTokenReused when the stored value no longer matches prev.
	SwapRefreshToken(ctx context.Context, id, prev, next string) error

	// ClearRefreshToken nulls the stored refresh token. Idempotent.
	ClearRefreshToken(ctx context.Context, id string) error

	Activate(ctx context.Context, id string) error
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
}
