package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const defaultAuditLimit = 50

// IncidentChecker reports whether an account carries a live token-reuse flag.
type IncidentChecker interface {
	IsFlagged(ctx context.Context, accountID string) (bool, error)
}

// AuditHandler exposes the authentication audit trail to admins.
type AuditHandler struct {
	repo      ports.AuditRepository
	incidents IncidentChecker
}

func NewAuditHandler(repo ports.AuditRepository, incidents IncidentChecker) *AuditHandler {
	return &AuditHandler{repo: repo, incidents: incidents}
}

type auditListResponse struct {
	Events       []*domain.AuthEvent `json:"events"`
	ReuseFlagged bool                `json:"reuse_flagged"`
}

// List handles GET /v1/audit/events?account_id=...&limit=...
//
// @Summary      List auth events for an account
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        account_id  query     string  true   "Account ID"
// @Param        limit       query     int     false  "Max events (default 50)"
// @Success      200         {object}  auditListResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Router       /v1/audit/events [get]
func (h *AuditHandler) List(c echo.Context) error {
	accountID := c.QueryParam("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 500 {
		limit = defaultAuditLimit
	}

	events, err := h.repo.ListByAccount(c.Request().Context(), accountID, int64(limit))
	if err != nil {
		return err
	}

	flagged := false
	if h.incidents != nil {
		flagged, err = h.incidents.IsFlagged(c.Request().Context(), accountID)
		if err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, auditListResponse{Events: events, ReuseFlagged: flagged})
}
