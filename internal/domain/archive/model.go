package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordType discriminates the snapshot union. Each registered Source
// contributes exactly one type.
type RecordType string

const (
	RecordTypePatient      RecordType = "patient"
	RecordTypePrescription RecordType = "prescription"
	RecordTypeLabOrder     RecordType = "lab_order"
	RecordTypeAppointment  RecordType = "appointment"
)

func (rt RecordType) Valid() bool {
	switch rt {
	case RecordTypePatient, RecordTypePrescription, RecordTypeLabOrder, RecordTypeAppointment:
		return true
	}
	return false
}

// PatientSnapshot is the frozen patient state at archival time.
type PatientSnapshot struct {
	MRN         string    `json:"mrn"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Phone       *string   `json:"phone,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	BloodType   *string   `json:"blood_type,omitempty"`
	Allergies   *string   `json:"allergies,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PrescriptionSnapshot struct {
	PatientID      uuid.UUID `json:"patient_id"`
	PrescriberID   uuid.UUID `json:"prescriber_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	Quantity       int       `json:"quantity"`
	Refills        int       `json:"refills"`
	Status         string    `json:"status"`
	Notes          *string   `json:"notes,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LabOrderSnapshot struct {
	PatientID  uuid.UUID  `json:"patient_id"`
	OrderedBy  uuid.UUID  `json:"ordered_by"`
	TestType   string     `json:"test_type"`
	Priority   string     `json:"priority"`
	Status     string     `json:"status"`
	Results    *string    `json:"results,omitempty"`
	ResultDate *time.Time `json:"result_date,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type AppointmentSnapshot struct {
	PatientID       uuid.UUID `json:"patient_id"`
	ProviderID      uuid.UUID `json:"provider_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Reason          *string   `json:"reason,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snapshot is a tagged union over the per-type snapshot payloads. Exactly
// one variant pointer is set, matching Kind.
type Snapshot struct {
	Kind         RecordType            `json:"kind"`
	Patient      *PatientSnapshot      `json:"patient,omitempty"`
	Prescription *PrescriptionSnapshot `json:"prescription,omitempty"`
	LabOrder     *LabOrderSnapshot     `json:"lab_order,omitempty"`
	Appointment  *AppointmentSnapshot  `json:"appointment,omitempty"`
}

// Validate checks that the set variant matches Kind.
func (s *Snapshot) Validate() error {
	var got RecordType
	set := 0
	if s.Patient != nil {
		got, set = RecordTypePatient, set+1
	}
	if s.Prescription != nil {
		got, set = RecordTypePrescription, set+1
	}
	if s.LabOrder != nil {
		got, set = RecordTypeLabOrder, set+1
	}
	if s.Appointment != nil {
		got, set = RecordTypeAppointment, set+1
	}
	if set != 1 {
		return fmt.Errorf("snapshot must carry exactly one variant, has %d", set)
	}
	if got != s.Kind {
		return fmt.Errorf("snapshot kind %q does not match variant %q", s.Kind, got)
	}
	return nil
}

// ArchivedRecord maps to the archived_record table. OriginalData is stored
// as jsonb; the (WorkShiftID, RecordType, RecordID) triple is unique so a
// re-run of the pipeline never duplicates rows.
type ArchivedRecord struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	TenantID            uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	WorkShiftID         uuid.UUID  `db:"work_shift_id" json:"work_shift_id"`
	RecordType          RecordType `db:"record_type" json:"record_type"`
	RecordID            uuid.UUID  `db:"record_id" json:"record_id"`
	PatientID           *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	OriginalData        Snapshot   `db:"original_data" json:"original_data"`
	SearchableContent   string     `db:"searchable_content" json:"searchable_content"`
	ArchivedBy          uuid.UUID  `db:"archived_by" json:"archived_by"`
	ArchivedAt          time.Time  `db:"archived_at" json:"archived_at"`
	RetentionPeriodDays int        `db:"retention_period_days" json:"retention_period_days"`
	LastAccessedBy      *uuid.UUID `db:"last_accessed_by" json:"last_accessed_by,omitempty"`
	LastAccessedAt      *time.Time `db:"last_accessed_at" json:"last_accessed_at,omitempty"`
	AccessCount         int        `db:"access_count" json:"access_count"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// SourceRecord is one record a Source reports as modified during a shift.
type SourceRecord struct {
	RecordID  uuid.UUID
	PatientID *uuid.UUID
	Snapshot  Snapshot
	// SearchText feeds the searchable_content column. Sources build it
	// from the human-facing fields of the record.
	SearchText string
}

// Source is implemented by each clinical domain that participates in shift
// archival. ModifiedBy returns every record in the tenant whose last
// modification by userID falls inside [from, to].
type Source interface {
	RecordType() RecordType
	ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]SourceRecord, error)
}

// MarshalData renders the snapshot for the jsonb column.
func (r *ArchivedRecord) MarshalData() ([]byte, error) {
	return json.Marshal(r.OriginalData)
}
