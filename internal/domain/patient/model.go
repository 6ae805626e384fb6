package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. MRN is unique per tenant.
type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TenantID       uuid.UUID `db:"tenant_id" json:"tenant_id"`
	MRN            string    `db:"mrn" json:"mrn"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	DateOfBirth    time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender         string    `db:"gender" json:"gender"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Address        *string   `db:"address" json:"address,omitempty"`
	BloodType      *string   `db:"blood_type" json:"blood_type,omitempty"`
	Allergies      *string   `db:"allergies" json:"allergies,omitempty"`
	LastModifiedBy uuid.UUID `db:"last_modified_by" json:"last_modified_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
