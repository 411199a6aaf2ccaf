package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runGate(t *testing.T, gate echo.MiddlewareFunc, category domain.Category) error {
	t.Helper()
	c, _, _ := newAuthContext(http.MethodGet, "/")
	c.Set("account", &domain.Account{ID: "acc_1", Category: category})
	return gate(okHandler)(c)
}

func TestRequireCategory_Admission(t *testing.T) {
	cases := []struct {
		name     string
		gate     echo.MiddlewareFunc
		category domain.Category
		allowed  bool
	}{
		{"farmer through farmer gate", RequireFarmer(), domain.CategoryFarmer, true},
		{"company through company gate", RequireCompany(), domain.CategoryCompany, true},
		{"admin through admin gate", RequireAdmin(), domain.CategoryAdmin, true},
		{"admin through farmer gate", RequireFarmer(), domain.CategoryAdmin, true},
		{"admin through company gate", RequireCompany(), domain.CategoryAdmin, true},
		{"farmer through company gate", RequireCompany(), domain.CategoryFarmer, false},
		{"company through farmer gate", RequireFarmer(), domain.CategoryCompany, false},
		{"farmer through admin gate", RequireAdmin(), domain.CategoryFarmer, false},
		{"company through admin gate", RequireAdmin(), domain.CategoryCompany, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := runGate(t, tc.gate, tc.category)
			if tc.allowed && err != nil {
				t.Fatalf("expected admission, got %v", err)
			}
			if !tc.allowed && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestRequireCategory_NoAccount(t *testing.T) {
	c, _, _ := newAuthContext(http.MethodGet, "/")

	err := RequireAdmin()(okHandler)(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
