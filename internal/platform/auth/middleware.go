package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the immutable (userId, tenantId, role) triple derived from a
// verified session token. It is the only source of truth for the caller's
// identity; handlers must never trust identity fields in request bodies.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     Role
}

// CrossTenant reports whether the identity may act outside its own tenant.
// Only platform super admins are exempt from tenant scoping.
func (id *Identity) CrossTenant() bool {
	return id.Role == RoleSuperAdmin
}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the verified identity, or nil when the
// request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// Middleware verifies the bearer token on every request and attaches the
// resulting Identity to the request context. Requests matched by skipper
// (health, login) pass through unauthenticated.
func Middleware(issuer *TokenIssuer, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			identity, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireCapability returns middleware that rejects requests whose identity
// does not hold the capability. It consults the declarative role table in
// rbac.go, so the capability matrix stays auditable in one place.
func RequireCapability(cap Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFromContext(c.Request().Context())
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !Can(identity.Role, cap) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("required capability: %s", cap))
			}
			return next(c)
		}
	}
}

// DefaultSkipper skips authentication for the login and health endpoints.
func DefaultSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/health" || path == "/api/v1/auth/login"
}
