package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho(issuer *TokenIssuer) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(issuer, DefaultSkipper))
	e.GET("/api/v1/whoami", func(c echo.Context) error {
		id := IdentityFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{
			"user_id":   id.UserID.String(),
			"tenant_id": id.TenantID.String(),
			"role":      string(id.Role),
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestMiddleware_MissingToken(t *testing.T) {
	e := newTestEcho(testIssuer("test-secret-32-bytes-minimum-aaaa"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	e := newTestEcho(testIssuer("test-secret-32-bytes-minimum-aaaa"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	e := newTestEcho(testIssuer("test-secret-32-bytes-minimum-aaaa"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	issuer := testIssuer("test-secret-32-bytes-minimum-aaaa")
	e := newTestEcho(issuer)

	userID := uuid.New()
	token, _, err := issuer.Issue(userID, uuid.New(), RolePharmacist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddleware_SkipsHealth(t *testing.T) {
	e := newTestEcho(testIssuer("test-secret-32-bytes-minimum-aaaa"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for unauthenticated health check, got %d", rec.Code)
	}
}

func TestRequireCapability(t *testing.T) {
	issuer := testIssuer("test-secret-32-bytes-minimum-aaaa")
	e := echo.New()
	e.Use(Middleware(issuer, nil))
	e.DELETE("/api/v1/patients/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireCapability(CapPatientDelete))

	cases := []struct {
		role Role
		want int
	}{
		{RoleTenantAdmin, http.StatusNoContent},
		{RoleDirector, http.StatusNoContent},
		{RoleReceptionist, http.StatusForbidden},
		{RolePatient, http.StatusForbidden},
	}
	for _, tc := range cases {
		token, _, err := issuer.Issue(uuid.New(), uuid.New(), tc.role)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Errorf("role %s: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}
}
