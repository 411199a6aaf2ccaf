package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ContractService struct {
	repo ports.ContractRepository
	log  zerolog.Logger
}

func NewContractService(repo ports.ContractRepository, log zerolog.Logger) *ContractService {
	return &ContractService{repo: repo, log: log}
}

// Create publishes a new contract offer on behalf of a company.
func (s *ContractService) Create(ctx context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
	now := time.Now().UTC()
	contract := &domain.Contract{
		Reference:  generateReference(),
		Title:      input.Title,
		Crop:       input.Crop,
		QuantityKg: input.QuantityKg,
		PricePerKg: input.PricePerKg,
		Currency:   input.Currency,
		CompanyID:  input.CompanyID,
		Status:     domain.ContractOffered,
		StatusHistory: []domain.StatusEntry{
			{Status: domain.ContractOffered, Timestamp: now},
		},
		DeliveryBy: input.DeliveryBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, contract); err != nil {
		s.log.Error().Err(err).Msg("failed to create contract")
		return nil, err
	}

	s.log.Info().Str("reference", contract.Reference).Str("company_id", input.CompanyID).Msg("contract offered")
	return contract, nil
}

// Get returns a contract the caller is allowed to see: admins see all,
// companies see their own, farmers see their own plus any open offer.
func (s *ContractService) Get(ctx context.Context, id string, caller *domain.Account) (*domain.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(contract, caller) {
		return nil, domain.ErrForbidden
	}
	return contract, nil
}

// List returns a page of contracts scoped to the caller. Farmers browsing
// with an "offered" status filter see the open marketplace; otherwise
// non-admin callers only see contracts they are party to.
func (s *ContractService) List(ctx context.Context, filter ports.ListContractsFilter, caller *domain.Account) ([]*domain.Contract, int64, error) {
	switch caller.Category {
	case domain.CategoryAdmin:
		// unscoped
	case domain.CategoryCompany:
		filter.CompanyID = caller.ID
		filter.FarmerID = ""
	case domain.CategoryFarmer:
		filter.CompanyID = ""
		if filter.Status == string(domain.ContractOffered) {
			filter.FarmerID = ""
		} else {
			filter.FarmerID = caller.ID
		}
	default:
		return nil, 0, domain.ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	return s.repo.List(ctx, filter)
}

// Accept claims an open offer for the calling farmer. The claim is a
// conditional write, so two farmers racing on the same offer cannot both win.
func (s *ContractService) Accept(ctx context.Context, id string, caller *domain.Account) (*domain.Contract, error) {
	entry := domain.StatusEntry{
		Status:    domain.ContractAccepted,
		Timestamp: time.Now().UTC(),
		Notes:     "accepted by farmer " + caller.ID,
	}
	if err := s.repo.Claim(ctx, id, caller.ID, entry); err != nil {
		return nil, err
	}

	s.log.Info().Str("contract_id", id).Str("farmer_id", caller.ID).Msg("contract accepted")
	return s.repo.FindByID(ctx, id)
}

// Advance moves a contract along its state machine on behalf of the owning
// company or an admin. Acceptance is excluded here; that is the farmer's move.
func (s *ContractService) Advance(ctx context.Context, id string, next domain.ContractStatus, notes string, caller *domain.Account) (*domain.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Category != domain.CategoryAdmin && contract.CompanyID != caller.ID {
		return nil, domain.ErrForbidden
	}
	if next == domain.ContractAccepted {
		return nil, fmt.Errorf("%w (acceptance is a farmer operation)", domain.ErrInvalidTransition)
	}
	if !contract.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, contract.Status, next)
	}

	entry := domain.StatusEntry{Status: next, Timestamp: time.Now().UTC(), Notes: notes}
	if err := s.repo.UpdateStatus(ctx, id, next, entry); err != nil {
		return nil, err
	}

	s.log.Info().Str("contract_id", id).Str("status", string(next)).Msg("contract status advanced")
	return s.repo.FindByID(ctx, id)
}

func canView(contract *domain.Contract, caller *domain.Account) bool {
	switch caller.Category {
	case domain.CategoryAdmin:
		return true
	case domain.CategoryCompany:
		return contract.CompanyID == caller.ID
	case domain.CategoryFarmer:
		return contract.FarmerID == caller.ID || contract.Status == domain.ContractOffered
	}
	return false
}

// generateReference returns a unique contract reference in the format FC-XXXXXXXX.
func generateReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("FC-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("FC-%08X", b)
}
