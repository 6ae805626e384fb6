package laborder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, o *LabOrder) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LabOrder, error)
	Update(ctx context.Context, o *LabOrder) error
	ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*LabOrder, int, error)
	ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*LabOrder, error)
}
