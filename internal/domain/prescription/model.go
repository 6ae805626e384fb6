package prescription

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusFilled    = "filled"
	StatusCancelled = "cancelled"
)

// Prescription maps to the prescription table.
type Prescription struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TenantID       uuid.UUID `db:"tenant_id" json:"tenant_id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	PrescriberID   uuid.UUID `db:"prescriber_id" json:"prescriber_id"`
	MedicationName string    `db:"medication_name" json:"medication_name"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Frequency      string    `db:"frequency" json:"frequency"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Refills        int       `db:"refills" json:"refills"`
	Status         string    `db:"status" json:"status"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	LastModifiedBy uuid.UUID `db:"last_modified_by" json:"last_modified_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
