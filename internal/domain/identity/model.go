package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

// User maps to the app_user table. A user belongs to exactly one tenant;
// the platform super admin lives under the platform tenant and is the
// single cross-tenant exception, handled by role, not by scoping.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TenantID     uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         auth.Role `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
