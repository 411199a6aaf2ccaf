package ports

import (
	"context"
	"time"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// CreateContractInput carries all data needed to publish a contract offer.
type CreateContractInput struct {
	Title      string
	Crop       string
	QuantityKg float64
	PricePerKg float64
	Currency   string
	DeliveryBy time.Time
	CompanyID  string
}

// ContractService implements contract negotiation operations. Every method
// takes the authenticated caller so ownership scoping stays in one place.
type ContractService interface {
	Create(ctx context.Context, input CreateContractInput) (*domain.Contract, error)
	Get(ctx context.Context, id string, caller *domain.Account) (*domain.Contract, error)
	List(ctx context.Context, filter ListContractsFilter, caller *domain.Account) ([]*domain.Contract, int64, error)

	// Accept claims an open offer for the calling farmer.
	Accept(ctx context.Context, id string, caller *domain.Account) (*domain.Contract, error)

	// Advance moves a contract along its state machine on behalf of the
	// owning company (or an admin).
	Advance(ctx context.Context, id string, next domain.ContractStatus, notes string, caller *domain.Account) (*domain.Contract, error)
}
