package laborder

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOrdered   = "ordered"
	StatusCollected = "collected"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PriorityRoutine = "routine"
	PriorityUrgent  = "urgent"
	PriorityStat    = "stat"
)

// LabOrder maps to the lab_order table.
type LabOrder struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	TenantID       uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	OrderedBy      uuid.UUID  `db:"ordered_by" json:"ordered_by"`
	TestType       string     `db:"test_type" json:"test_type"`
	Priority       string     `db:"priority" json:"priority"`
	Status         string     `db:"status" json:"status"`
	Results        *string    `db:"results" json:"results,omitempty"`
	ResultDate     *time.Time `db:"result_date" json:"result_date,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	LastModifiedBy uuid.UUID  `db:"last_modified_by" json:"last_modified_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func validPriority(p string) bool {
	switch p {
	case PriorityRoutine, PriorityUrgent, PriorityStat:
		return true
	}
	return false
}
