package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts an active shift. The storage layer enforces the
	// one-active-shift rule and Create returns ErrShiftAlreadyActive when
	// it is violated, including under concurrent starts.
	Create(ctx context.Context, w *WorkShift) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*WorkShift, error)
	GetActiveByUser(ctx context.Context, tenantID, userID uuid.UUID) (*WorkShift, error)
	// End transitions active -> ended with the given end time. It is a
	// compare-and-swap: a shift that is already ended returns
	// ErrNoActiveShift instead of moving the end time.
	End(ctx context.Context, tenantID, id uuid.UUID, endTime time.Time) (*WorkShift, error)
	MarkArchived(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error
	List(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]*WorkShift, int, error)
}
