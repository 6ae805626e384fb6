package patient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	cur, ok := m.patients[p.ID]
	if !ok || cur.TenantID != p.TenantID {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := m.patients[id]
	if !ok || p.TenantID != tenantID {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID uuid.UUID, query string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.TenantID != tenantID {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func matchesQuery(p *Patient, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q) ||
		strings.Contains(strings.ToLower(p.MRN), q)
}

func (m *mockRepo) ModifiedBy(_ context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.TenantID == tenantID && p.LastModifiedBy == userID &&
			!p.UpdatedAt.Before(from) && !p.UpdatedAt.After(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

func testIdentity(role auth.Role) *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: role}
}

func validPatient() *Patient {
	return &Patient{
		MRN:         "MRN-0001",
		FirstName:   "Ada",
		LastName:    "Osei",
		DateOfBirth: time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
	}
}

func TestCreateStampsTenantAndModifier(t *testing.T) {
	svc := NewService(newMockRepo())
	id := testIdentity(auth.RolePhysician)

	p := validPatient()
	if err := svc.Create(context.Background(), id, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.TenantID != id.TenantID {
		t.Errorf("tenant = %s, want caller's %s", p.TenantID, id.TenantID)
	}
	if p.LastModifiedBy != id.UserID {
		t.Errorf("last_modified_by = %s, want %s", p.LastModifiedBy, id.UserID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	id := testIdentity(auth.RolePhysician)

	cases := []struct {
		name   string
		mutate func(*Patient)
	}{
		{"missing mrn", func(p *Patient) { p.MRN = "" }},
		{"missing name", func(p *Patient) { p.FirstName = "" }},
		{"missing dob", func(p *Patient) { p.DateOfBirth = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPatient()
			tc.mutate(p)
			if err := svc.Create(context.Background(), id, p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListFiltersByNameOrMRN(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := testIdentity(auth.RolePhysician)

	for _, p := range []*Patient{
		{MRN: "MRN-0001", FirstName: "Ada", LastName: "Osei", DateOfBirth: time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC), Gender: "female"},
		{MRN: "MRN-0002", FirstName: "Kofi", LastName: "Mensah", DateOfBirth: time.Date(1972, 11, 2, 0, 0, 0, 0, time.UTC), Gender: "male"},
	} {
		if err := svc.Create(context.Background(), id, p); err != nil {
			t.Fatal(err)
		}
	}

	got, total, err := svc.List(context.Background(), id, " osei ", 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].LastName != "Osei" {
		t.Errorf("query osei: got %d results (total %d)", len(got), total)
	}

	_, total, err = svc.List(context.Background(), id, "", 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("unfiltered total = %d, want 2", total)
	}
}

func TestGetIsTenantScoped(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := testIdentity(auth.RolePhysician)

	p := validPatient()
	if err := svc.Create(context.Background(), owner, p); err != nil {
		t.Fatal(err)
	}

	intruder := testIdentity(auth.RolePhysician)
	if _, err := svc.Get(context.Background(), intruder, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant get: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), owner, p.ID); err != nil {
		t.Errorf("same-tenant get: %v", err)
	}
}

func TestUpdatePreservesMRN(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := testIdentity(auth.RolePhysician)

	p := validPatient()
	if err := svc.Create(context.Background(), id, p); err != nil {
		t.Fatal(err)
	}

	upd := *p
	upd.MRN = "MRN-FORGED"
	upd.FirstName = "Adaeze"
	if err := svc.Update(context.Background(), id, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.MRN != "MRN-0001" {
		t.Errorf("mrn = %q, must stay %q", upd.MRN, "MRN-0001")
	}
	if upd.FirstName != "Adaeze" {
		t.Errorf("first name not updated")
	}
}

func TestArchiveSourceSnapshots(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := testIdentity(auth.RolePhysician)

	p := validPatient()
	if err := svc.Create(context.Background(), id, p); err != nil {
		t.Fatal(err)
	}

	src := NewArchiveSource(repo)
	records, err := src.ModifiedBy(context.Background(), id.TenantID, id.UserID,
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("modified by: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Snapshot.Kind != "patient" || rec.Snapshot.Patient == nil {
		t.Fatalf("snapshot variant not set: %+v", rec.Snapshot)
	}
	if rec.Snapshot.Patient.MRN != "MRN-0001" {
		t.Errorf("snapshot mrn = %q", rec.Snapshot.Patient.MRN)
	}
	if rec.PatientID == nil || *rec.PatientID != p.ID {
		t.Error("patient id not carried on the record")
	}
	if rec.SearchText == "" {
		t.Error("search text is empty")
	}
	if err := rec.Snapshot.Validate(); err != nil {
		t.Errorf("snapshot validate: %v", err)
	}
}
