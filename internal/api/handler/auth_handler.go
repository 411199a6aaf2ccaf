package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/api/metrics"
	"github.com/farmconnect/marketplace-api/internal/api/middleware"
	"github.com/farmconnect/marketplace-api/internal/core/domain"
	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

const (
	refreshCookie  = "refreshToken"
	categoryCookie = "category"
)

// CookieConfig controls how the auth cookies are issued. Secure defaults to
// on; only explicitly-marked development config turns it off.
type CookieConfig struct {
	Secure     bool
	Domain     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new farmer or company account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		DisplayName: req.Name,
		Category:    domain.Category(req.Category),
		Password:    req.Password,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: account.Sanitized()})
}

// Login authenticates by email or phone number and issues the token pair as
// httpOnly cookies plus body fields.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, account, err := h.authService.Login(c.Request().Context(), req.identifier(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setAuthCookies(c, pair, account.Category)

	return c.JSON(http.StatusOK, authResponse{
		User:         account.Sanitized(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh exchanges the refresh token (cookie first, body fallback) for a
// fresh token pair. The access token is not required to be valid here.
//
// @Summary      Rotate the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token when not sent as a cookie"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return domain.ErrUnauthenticated
	}

	pair, account, err := h.authService.Rotate(c.Request().Context(), token)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrTokenReused) {
			metrics.TokenReuseDetectedTotal.Inc()
		}
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	h.setAuthCookies(c, pair, account.Category)

	return c.JSON(http.StatusOK, authResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout invalidates the caller's refresh token and clears the auth cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), account.ID); err != nil {
		return err
	}

	h.clearAuthCookies(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *AuthHandler) setAuthCookies(c echo.Context, pair ports.TokenPair, category domain.Category) {
	c.SetCookie(h.cookie(middleware.AccessCookie, pair.AccessToken, h.cookies.AccessTTL, true))
	c.SetCookie(h.cookie(refreshCookie, pair.RefreshToken, h.cookies.RefreshTTL, true))
	// Readable on purpose: the web client gates routes on the category.
	c.SetCookie(h.cookie(categoryCookie, string(category), h.cookies.RefreshTTL, false))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessCookie, refreshCookie, categoryCookie} {
		expired := h.cookie(name, "", 0, name != categoryCookie)
		expired.MaxAge = -1
		c.SetCookie(expired)
	}
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   h.cookies.Secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	}
}
