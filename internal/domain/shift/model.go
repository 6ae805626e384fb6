package shift

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

const (
	TypeDay    = "day"
	TypeNight  = "night"
	TypeOnCall = "on_call"
)

// WorkShift maps to the work_shift table. A partial unique index on
// (tenant_id, user_id) WHERE status = 'active' guarantees at most one
// active shift per user even under concurrent starts.
type WorkShift struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TenantID   uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	ShiftType  string     `db:"shift_type" json:"shift_type"`
	Status     string     `db:"status" json:"status"`
	StartTime  time.Time  `db:"start_time" json:"start_time"`
	EndTime    *time.Time `db:"end_time" json:"end_time,omitempty"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	ArchivedAt *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

func (w *WorkShift) Active() bool {
	return w.Status == StatusActive
}

func validShiftType(t string) bool {
	switch t {
	case TypeDay, TypeNight, TypeOnCall:
		return true
	}
	return false
}
