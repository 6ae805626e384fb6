package auth

// Role is a user's role within its tenant. Exactly one role per user.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleDirector      Role = "director"
	RolePhysician     Role = "physician"
	RolePharmacist    Role = "pharmacist"
	RoleLabTechnician Role = "lab_technician"
	RoleReceptionist  Role = "receptionist"
	RolePatient       Role = "patient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleDirector, RolePhysician,
		RolePharmacist, RoleLabTechnician, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

// Supervisory reports whether r may approve time logs and administer
// other users' shifts within its tenant.
func (r Role) Supervisory() bool {
	return r == RoleSuperAdmin || r == RoleTenantAdmin || r == RoleDirector
}

// Capability names a discrete operation a role may perform. The full
// role -> capability mapping lives in RoleCapabilities so it can be
// audited and tested in one place, instead of per-handler conditionals.
type Capability string

const (
	CapPatientRead       Capability = "patient.read"
	CapPatientWrite      Capability = "patient.write"
	CapPatientDelete     Capability = "patient.delete"
	CapPrescriptionRead  Capability = "prescription.read"
	CapPrescriptionWrite Capability = "prescription.write"
	CapLabOrderRead      Capability = "laborder.read"
	CapLabOrderWrite     Capability = "laborder.write"
	CapAppointmentRead   Capability = "appointment.read"
	CapAppointmentWrite  Capability = "appointment.write"
	CapShiftManage       Capability = "shift.manage"
	CapShiftAdmin        Capability = "shift.admin"
	CapArchiveSearch     Capability = "archive.search"
	CapArchiveRun        Capability = "archive.run"
	CapTimeLogRecord     Capability = "timelog.record"
	CapTimeLogApprove    Capability = "timelog.approve"
	CapUserManage        Capability = "user.manage"
	CapTenantManage      Capability = "tenant.manage"
)

// clinicalStaff is the capability set shared by every staff role that
// works shifts and records attendance.
var clinicalStaff = []Capability{
	CapShiftManage, CapArchiveSearch, CapTimeLogRecord,
}

// RoleCapabilities is the declarative role -> capability table.
// super_admin is handled in Can and is not listed here: it holds every
// capability and additionally bypasses tenant scoping for platform
// administration.
var RoleCapabilities = map[Role][]Capability{
	RoleTenantAdmin: append([]Capability{
		CapPatientRead, CapPatientWrite, CapPatientDelete,
		CapPrescriptionRead, CapPrescriptionWrite,
		CapLabOrderRead, CapLabOrderWrite,
		CapAppointmentRead, CapAppointmentWrite,
		CapShiftAdmin, CapArchiveRun,
		CapTimeLogApprove, CapUserManage,
	}, clinicalStaff...),
	RoleDirector: append([]Capability{
		CapPatientRead, CapPatientWrite, CapPatientDelete,
		CapPrescriptionRead, CapLabOrderRead, CapAppointmentRead,
		CapShiftAdmin, CapArchiveRun, CapTimeLogApprove,
	}, clinicalStaff...),
	RolePhysician: append([]Capability{
		CapPatientRead, CapPatientWrite,
		CapPrescriptionRead, CapPrescriptionWrite,
		CapLabOrderRead, CapLabOrderWrite,
		CapAppointmentRead, CapAppointmentWrite,
	}, clinicalStaff...),
	RolePharmacist: append([]Capability{
		CapPatientRead, CapPrescriptionRead, CapPrescriptionWrite,
	}, clinicalStaff...),
	RoleLabTechnician: append([]Capability{
		CapPatientRead, CapLabOrderRead, CapLabOrderWrite,
	}, clinicalStaff...),
	RoleReceptionist: append([]Capability{
		CapPatientRead, CapPatientWrite,
		CapAppointmentRead, CapAppointmentWrite,
	}, clinicalStaff...),
	// Patients reach their own records through the portal surface, which
	// is a consumer of this core, not a staff capability.
	RolePatient: {},
}

// Can reports whether the role holds the capability.
func Can(role Role, cap Capability) bool {
	if role == RoleSuperAdmin {
		return true
	}
	for _, c := range RoleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}
