package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

// currentAccount extracts the account injected by the Auth middleware and
// fast-fails before any service call when it is missing — presence proves
// the authenticator ran for this route.
func currentAccount(c echo.Context) (*domain.Account, error) {
	account, ok := c.Get("account").(*domain.Account)
	if !ok || account == nil {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}
