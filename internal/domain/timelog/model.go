package timelog

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusClockedIn  = "clocked_in"
	StatusClockedOut = "clocked_out"
	StatusApproved   = "approved"
	StatusDisputed   = "disputed"
)

// regularHours is the daily threshold above which time counts as overtime.
const regularHours = 8.0

// TimeLog maps to the time_log table. A partial unique index on
// (tenant_id, user_id) WHERE status = 'clocked_in' keeps a user from
// holding two open entries.
type TimeLog struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	TenantID         uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	WorkShiftID      *uuid.UUID `db:"work_shift_id" json:"work_shift_id,omitempty"`
	ClockIn          time.Time  `db:"clock_in" json:"clock_in"`
	ClockOut         *time.Time `db:"clock_out" json:"clock_out,omitempty"`
	ClockInLocation  *string    `db:"clock_in_location" json:"clock_in_location,omitempty"`
	ClockOutLocation *string    `db:"clock_out_location" json:"clock_out_location,omitempty"`
	BreakMinutes     int        `db:"break_minutes" json:"break_minutes"`
	TotalHours       *float64   `db:"total_hours" json:"total_hours,omitempty"`
	OvertimeHours    *float64   `db:"overtime_hours" json:"overtime_hours,omitempty"`
	Status           string     `db:"status" json:"status"`
	ApprovedBy       *uuid.UUID `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	DisputeReason    *string    `db:"dispute_reason" json:"dispute_reason,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// WeeklySummary aggregates a user's time for one week starting at
// WeekStart (Monday 00:00 UTC).
type WeeklySummary struct {
	UserID        uuid.UUID `json:"user_id"`
	WeekStart     time.Time `json:"week_start"`
	WeekEnd       time.Time `json:"week_end"`
	TotalHours    float64   `json:"total_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
	Entries       int       `json:"entries"`
}
