package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

type stubContractService struct {
	contract *domain.Contract
	err      error

	createInput ports.CreateContractInput
	advanceNext domain.ContractStatus
}

func (s *stubContractService) Create(_ context.Context, input ports.CreateContractInput) (*domain.Contract, error) {
	s.createInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.contract, nil
}

func (s *stubContractService) Get(_ context.Context, _ string, _ *domain.Account) (*domain.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contract, nil
}

func (s *stubContractService) List(_ context.Context, _ ports.ListContractsFilter, _ *domain.Account) ([]*domain.Contract, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []*domain.Contract{s.contract}, 1, nil
}

func (s *stubContractService) Accept(_ context.Context, _ string, _ *domain.Account) (*domain.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contract, nil
}

func (s *stubContractService) Advance(_ context.Context, _ string, next domain.ContractStatus, _ string, _ *domain.Account) (*domain.Contract, error) {
	s.advanceNext = next
	if s.err != nil {
		return nil, s.err
	}
	return s.contract, nil
}

func companyContext(method, target, body string) (echo.Context, *domain.Account) {
	c, _ := newJSONContext(method, target, body)
	account := &domain.Account{ID: "comp_1", Category: domain.CategoryCompany}
	c.Set("account", account)
	return c, account
}

func TestContractHandler_Create(t *testing.T) {
	service := &stubContractService{contract: &domain.Contract{
		ID:     "ctr_1",
		Crop:   "maize",
		Status: domain.ContractOffered,
	}}
	h := NewContractHandler(service)

	c, account := companyContext(http.MethodPost, "/v1/contracts",
		`{"title":"Maize 2026","crop":"maize","quantity_kg":5000,"price_per_kg":0.42,"currency":"USD","delivery_by":"2026-11-30T00:00:00Z"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if service.createInput.CompanyID != account.ID {
		t.Fatalf("company id not taken from the caller, got %q", service.createInput.CompanyID)
	}
	if service.createInput.Crop != "maize" {
		t.Fatalf("crop not bound, got %q", service.createInput.Crop)
	}
}

func TestContractHandler_Create_InvalidCurrency(t *testing.T) {
	h := NewContractHandler(&stubContractService{})

	c, _ := companyContext(http.MethodPost, "/v1/contracts",
		`{"title":"Maize 2026","crop":"maize","quantity_kg":5000,"price_per_kg":0.42,"currency":"dollars","delivery_by":"2026-11-30T00:00:00Z"}`)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestContractHandler_Create_NoAccount(t *testing.T) {
	h := NewContractHandler(&stubContractService{})

	c, _ := newJSONContext(http.MethodPost, "/v1/contracts", `{}`)

	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestContractHandler_Advance(t *testing.T) {
	service := &stubContractService{contract: &domain.Contract{
		ID:     "ctr_1",
		Status: domain.ContractActive,
	}}
	h := NewContractHandler(service)

	c, _ := companyContext(http.MethodPost, "/v1/contracts/ctr_1/status",
		`{"status":"active","notes":"seeds delivered"}`)
	c.SetParamNames("id")
	c.SetParamValues("ctr_1")

	if err := h.Advance(c); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if service.advanceNext != domain.ContractActive {
		t.Fatalf("service got status %q", service.advanceNext)
	}
}

func TestContractHandler_Advance_InvalidTransition(t *testing.T) {
	h := NewContractHandler(&stubContractService{err: domain.ErrInvalidTransition})

	c, _ := companyContext(http.MethodPost, "/v1/contracts/ctr_1/status",
		`{"status":"fulfilled"}`)
	c.SetParamNames("id")
	c.SetParamValues("ctr_1")

	if err := h.Advance(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestContractHandler_Get_NotFound(t *testing.T) {
	h := NewContractHandler(&stubContractService{err: domain.ErrContractNotFound})

	c, _ := companyContext(http.MethodGet, "/v1/contracts/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); !errors.Is(err, domain.ErrContractNotFound) {
		t.Fatalf("expected ErrContractNotFound, got %v", err)
	}
}
