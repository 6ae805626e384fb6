package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a tenant organization. Immutable after onboarding.
type Kind string

const (
	KindHospital          Kind = "hospital"
	KindPharmacy          Kind = "pharmacy"
	KindLaboratory        Kind = "laboratory"
	KindClinic            Kind = "clinic"
	KindInsuranceProvider Kind = "insurance_provider"
	KindMedicalSupplier   Kind = "medical_supplier"
	KindPlatform          Kind = "platform"
)

// Valid reports whether k is a known tenant kind.
func (k Kind) Valid() bool {
	switch k {
	case KindHospital, KindPharmacy, KindLaboratory, KindClinic,
		KindInsuranceProvider, KindMedicalSupplier, KindPlatform:
		return true
	}
	return false
}

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Tenant maps to the tenant table. Every domain row belongs to exactly one
// tenant via a tenant_id foreign key.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Name      string    `db:"name" json:"name"`
	Kind      Kind      `db:"kind" json:"kind"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the tenant may be used for logins and operations.
func (t *Tenant) Active() bool {
	return t.Status == StatusActive
}
