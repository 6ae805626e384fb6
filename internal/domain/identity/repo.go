package identity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for users. All lookups are
// scoped by tenant; there is no cross-tenant email lookup by design.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*User, int, error)
}
