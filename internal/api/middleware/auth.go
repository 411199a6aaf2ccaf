package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// Auth is the request authenticator: it extracts the access token (cookie
// wins over the Authorization header), resolves it to an account, and
// injects the account into the request context. It never falls back to the
// refresh token; refresh is an explicit client call.
func Auth(verifier ports.AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return domain.ErrUnauthenticated
			}

			account, err := verifier.VerifyAccess(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set("account", account)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
