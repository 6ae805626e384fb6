package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.UpdatedAt = time.Now()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok || a.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	cur, ok := m.appointments[a.ID]
	if !ok || cur.TenantID != a.TenantID {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepo) ListByProvider(_ context.Context, tenantID, providerID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.TenantID == tenantID && a.ProviderID == providerID &&
			!a.ScheduledAt.Before(from) && a.ScheduledAt.Before(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.TenantID == tenantID && a.PatientID == patientID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ModifiedBy(_ context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appointments {
		if a.TenantID == tenantID && a.LastModifiedBy == userID &&
			!a.UpdatedAt.Before(from) && !a.UpdatedAt.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

var slot = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func schedule(t *testing.T, svc *Service, id *auth.Identity, at time.Time, minutes int) *Appointment {
	t.Helper()
	a := &Appointment{PatientID: uuid.New(), ScheduledAt: at, DurationMinutes: minutes}
	if err := svc.Schedule(context.Background(), id, a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestScheduleDefaults(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleReceptionist}

	a := &Appointment{PatientID: uuid.New(), ScheduledAt: slot}
	if err := svc.Schedule(context.Background(), id, a); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", a.Status, StatusScheduled)
	}
	if a.DurationMinutes != defaultDurationMinutes {
		t.Errorf("duration = %d, want default %d", a.DurationMinutes, defaultDurationMinutes)
	}
	if a.ProviderID != id.UserID {
		t.Errorf("provider defaults to caller, got %s", a.ProviderID)
	}
}

func TestScheduleRejectsOverlap(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleReceptionist}

	schedule(t, svc, id, slot, 30)

	overlapping := &Appointment{PatientID: uuid.New(), ScheduledAt: slot.Add(15 * time.Minute), DurationMinutes: 30}
	if err := svc.Schedule(context.Background(), id, overlapping); !errors.Is(err, ErrOverlap) {
		t.Errorf("err = %v, want ErrOverlap", err)
	}

	// Back to back is fine.
	adjacent := &Appointment{PatientID: uuid.New(), ScheduledAt: slot.Add(30 * time.Minute), DurationMinutes: 30}
	if err := svc.Schedule(context.Background(), id, adjacent); err != nil {
		t.Errorf("adjacent slot: %v", err)
	}
}

func TestCancelledSlotDoesNotBlock(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleReceptionist}

	a := schedule(t, svc, id, slot, 30)
	if _, err := svc.Cancel(context.Background(), id, a.ID); err != nil {
		t.Fatal(err)
	}

	rebooked := &Appointment{PatientID: uuid.New(), ScheduledAt: slot, DurationMinutes: 30}
	if err := svc.Schedule(context.Background(), id, rebooked); err != nil {
		t.Errorf("rebooking a cancelled slot: %v", err)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleReceptionist}

	a := schedule(t, svc, id, slot, 30)
	if _, err := svc.Complete(context.Background(), id, a.ID, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(context.Background(), id, a.ID); err == nil {
		t.Error("completed appointment must not be cancellable")
	}
	if _, err := svc.MarkNoShow(context.Background(), id, a.ID); err == nil {
		t.Error("completed appointment must not be markable no-show")
	}
}

func TestArchiveSourceSnapshots(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleReceptionist}

	a := schedule(t, svc, id, slot, 45)

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
	if rec.Snapshot.Appointment == nil || !rec.Snapshot.Appointment.ScheduledAt.Equal(slot) {
		t.Errorf("snapshot = %+v", rec.Snapshot)
	}
	if rec.PatientID == nil || *rec.PatientID != a.PatientID {
		t.Error("patient id not carried")
	}
	if err := rec.Snapshot.Validate(); err != nil {
		t.Errorf("snapshot validate: %v", err)
	}
}
