package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/api/metrics"
	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// Role gates. Each passes the request through only when the authenticated
// account holds the named category; admin satisfies every gate.

func RequireAdmin() echo.MiddlewareFunc {
	return requireCategory(domain.CategoryAdmin)
}

func RequireFarmer() echo.MiddlewareFunc {
	return requireCategory(domain.CategoryFarmer)
}

func RequireCompany() echo.MiddlewareFunc {
	return requireCategory(domain.CategoryCompany)
}

func requireCategory(want domain.Category) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := c.Get("account").(*domain.Account)
			if !ok || account == nil {
				// The authenticator did not run; treat as unauthenticated,
				// not as a role failure.
				return domain.ErrUnauthenticated
			}

			switch account.Category {
			case domain.CategoryAdmin, want:
				return next(c)
			}

			metrics.AuthzDeniedTotal.WithLabelValues(string(want)).Inc()
			return domain.ErrForbidden
		}
	}
}
