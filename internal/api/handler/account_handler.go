package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

// AccountHandler exposes admin-only account management.
type AccountHandler struct {
	repo ports.AccountRepository
}

func NewAccountHandler(repo ports.AccountRepository) *AccountHandler {
	return &AccountHandler{repo: repo}
}

type accountListResponse struct {
	Accounts []*domain.Account `json:"accounts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// List handles GET /v1/accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Filter by category"
// @Param        active    query     bool    false  "Filter by activation state"
// @Param        page      query     int     false  "Page (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  accountListResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	filter := ports.ListAccountsFilter{
		Category: c.QueryParam("category"),
		Page:     page,
		Limit:    limit,
	}
	if raw := c.QueryParam("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be a boolean")
		}
		filter.Active = &active
	}

	accounts, total, err := h.repo.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}
	return c.JSON(http.StatusOK, accountListResponse{
		Accounts: accounts,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// Activate handles PATCH /v1/accounts/:id/activate — flips the account's
// active flag on after review.
//
// @Summary      Activate an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id}/activate [patch]
func (h *AccountHandler) Activate(c echo.Context) error {
	if err := h.repo.Activate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account activated"})
}
