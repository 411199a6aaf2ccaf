package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/api/metrics"
	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

// ContractHandler handles HTTP requests for contract operations.
type ContractHandler struct {
	service ports.ContractService
}

func NewContractHandler(service ports.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// Create handles POST /v1/contracts — a company publishes a new offer.
//
// @Summary      Publish a contract offer
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createContractRequest  true  "Contract offer"
// @Success      201   {object}  domain.Contract
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/contracts [post]
func (h *ContractHandler) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req createContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contract, err := h.service.Create(c.Request().Context(), toCreateContractInput(req, account.ID))
	if err != nil {
		return err
	}

	metrics.ContractsCreatedTotal.WithLabelValues(contract.Crop).Inc()
	return c.JSON(http.StatusCreated, contract)
}

// List handles GET /v1/contracts — scoped to the caller's role.
//
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        crop    query     string  false  "Filter by crop"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  contractListResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/contracts [get]
func (h *ContractHandler) List(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	filter := toListContractsFilter(c)
	contracts, total, err := h.service.List(c.Request().Context(), filter, account)
	if err != nil {
		return err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	return c.JSON(http.StatusOK, contractListResponse{
		Contracts: contracts,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

// Get handles GET /v1/contracts/:id.
//
// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contract ID"
// @Success      200  {object}  domain.Contract
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/contracts/{id} [get]
func (h *ContractHandler) Get(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	contract, err := h.service.Get(c.Request().Context(), c.Param("id"), account)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}

// Accept handles POST /v1/contracts/:id/accept — a farmer claims an offer.
//
// @Summary      Accept a contract offer
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contract ID"
// @Success      200  {object}  domain.Contract
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/contracts/{id}/accept [post]
func (h *ContractHandler) Accept(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	contract, err := h.service.Accept(c.Request().Context(), c.Param("id"), account)
	if err != nil {
		return err
	}

	metrics.ContractStatusChangesTotal.WithLabelValues(string(contract.Status)).Inc()
	return c.JSON(http.StatusOK, contract)
}

// Advance handles POST /v1/contracts/:id/status — the owning company moves
// the contract along its lifecycle.
//
// @Summary      Advance a contract's status
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Contract ID"
// @Param        body  body      advanceContractRequest  true  "Target status"
// @Success      200   {object}  domain.Contract
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/contracts/{id}/status [post]
func (h *ContractHandler) Advance(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req advanceContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contract, err := h.service.Advance(c.Request().Context(), c.Param("id"), domain.ContractStatus(req.Status), req.Notes, account)
	if err != nil {
		return err
	}

	metrics.ContractStatusChangesTotal.WithLabelValues(string(contract.Status)).Inc()
	return c.JSON(http.StatusOK, contract)
}
