package timelog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts an open entry. The storage layer rejects a second
	// open entry for the same user with ErrAlreadyClockedIn.
	Create(ctx context.Context, l *TimeLog) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TimeLog, error)
	GetOpenByUser(ctx context.Context, tenantID, userID uuid.UUID) (*TimeLog, error)
	Update(ctx context.Context, l *TimeLog) error
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*TimeLog, error)
	List(ctx context.Context, tenantID uuid.UUID, status *string, limit, offset int) ([]*TimeLog, int, error)
}
