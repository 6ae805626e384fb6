package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines patient persistence. Every read and write is scoped
// to a tenant; there is no cross-tenant lookup.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// List returns a page of the tenant's patients. A non-empty query
	// filters by name or MRN substring.
	List(ctx context.Context, tenantID uuid.UUID, query string, limit, offset int) ([]*Patient, int, error)
	// ModifiedBy returns patients last touched by userID inside [from, to].
	ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Patient, error)
}
