package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// ListByProvider returns a provider's appointments inside [from, to].
	ListByProvider(ctx context.Context, tenantID, providerID uuid.UUID, from, to time.Time) ([]*Appointment, error)
	ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Appointment, error)
}
