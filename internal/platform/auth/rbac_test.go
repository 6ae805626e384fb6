package auth

import "testing"

func TestCan_SuperAdminHoldsEverything(t *testing.T) {
	caps := []Capability{
		CapPatientRead, CapPatientDelete, CapShiftAdmin,
		CapArchiveRun, CapTimeLogApprove, CapTenantManage, CapUserManage,
	}
	for _, cap := range caps {
		if !Can(RoleSuperAdmin, cap) {
			t.Errorf("super_admin should hold %s", cap)
		}
	}
}

func TestCan_ReceptionistCreatesButNotDeletes(t *testing.T) {
	if !Can(RoleReceptionist, CapPatientWrite) {
		t.Error("receptionist should hold patient.write")
	}
	if Can(RoleReceptionist, CapPatientDelete) {
		t.Error("receptionist should not hold patient.delete")
	}
	if Can(RoleReceptionist, CapPrescriptionWrite) {
		t.Error("receptionist should not hold prescription.write")
	}
}

func TestCan_PatientHoldsNoStaffCapabilities(t *testing.T) {
	for role, caps := range RoleCapabilities {
		if role == RolePatient && len(caps) != 0 {
			t.Errorf("patient role should hold no staff capabilities, got %v", caps)
		}
	}
	if Can(RolePatient, CapPatientRead) {
		t.Error("patient role should not hold patient.read")
	}
}

func TestCan_ApprovalIsSupervisoryOnly(t *testing.T) {
	approvers := map[Role]bool{
		RoleTenantAdmin:   true,
		RoleDirector:      true,
		RolePhysician:     false,
		RolePharmacist:    false,
		RoleLabTechnician: false,
		RoleReceptionist:  false,
		RolePatient:       false,
	}
	for role, want := range approvers {
		if got := Can(role, CapTimeLogApprove); got != want {
			t.Errorf("Can(%s, timelog.approve) = %v, want %v", role, got, want)
		}
	}
}

func TestCan_AllStaffRolesWorkShifts(t *testing.T) {
	staff := []Role{
		RoleTenantAdmin, RoleDirector, RolePhysician,
		RolePharmacist, RoleLabTechnician, RoleReceptionist,
	}
	for _, role := range staff {
		if !Can(role, CapShiftManage) {
			t.Errorf("%s should hold shift.manage", role)
		}
		if !Can(role, CapTimeLogRecord) {
			t.Errorf("%s should hold timelog.record", role)
		}
		if !Can(role, CapArchiveSearch) {
			t.Errorf("%s should hold archive.search", role)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RolePhysician.Valid() {
		t.Error("physician should be valid")
	}
	if Role("janitor").Valid() {
		t.Error("unknown role should be invalid")
	}
}

func TestSupervisory(t *testing.T) {
	if !RoleDirector.Supervisory() {
		t.Error("director should be supervisory")
	}
	if RolePhysician.Supervisory() {
		t.Error("physician should not be supervisory")
	}
}
