package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for tenants. Tenants are
// platform-level rows: they are not themselves tenant-scoped.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context, limit, offset int) ([]*Tenant, int, error)
}
