package archive

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists archived records. CreateBatch must be idempotent on
// the (work_shift_id, record_type, record_id) key so that re-running the
// pipeline for a shift never duplicates rows.
type Repository interface {
	// CreateBatch inserts records, skipping any whose key already exists,
	// and returns the number actually inserted.
	CreateBatch(ctx context.Context, records []*ArchivedRecord) (int, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ArchivedRecord, error)
	Search(ctx context.Context, tenantID uuid.UUID, query string, recordType *RecordType, limit, offset int) ([]*ArchivedRecord, int, error)
	ListByShift(ctx context.Context, tenantID, shiftID uuid.UUID) ([]*ArchivedRecord, error)
	// RecordAccess bumps access_count and stamps the accessor atomically.
	RecordAccess(ctx context.Context, tenantID, id, userID uuid.UUID) error
}
