package ports

import (
	"context"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// ListContractsFilter carries query parameters for listing contracts.
// CompanyID/FarmerID scoping is enforced by the service layer from the
// caller's identity; admins list unscoped.
type ListContractsFilter struct {
	CompanyID string // empty = no company filter
	FarmerID  string // empty = no farmer filter
	Status    string // optional: filter by contract status
	Crop      string // optional: filter by crop
	Page      int    // 1-based
	Limit     int    // max rows per page (capped at 100 by the service)
}

// ContractRepository defines persistence operations for contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	FindByID(ctx context.Context, id string) (*domain.Contract, error)
	List(ctx context.Context, filter ListContractsFilter) ([]*domain.Contract, int64, error)

	// UpdateStatus atomically sets the contract status and appends a history
	// entry.
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, entry domain.StatusEntry) error

	// Claim assigns farmerID and moves the contract to accepted only if it is
	// still in the offered state with no farmer, in one conditional write.
	// Returns domain.ErrInvalidTransition when the offer is no longer open.
	Claim(ctx context.Context, id, farmerID string, entry domain.StatusEntry) error
}
