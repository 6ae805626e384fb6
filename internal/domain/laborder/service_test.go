package laborder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

type mockRepo struct {
	orders map[uuid.UUID]*LabOrder
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[uuid.UUID]*LabOrder)}
}

func (m *mockRepo) Create(_ context.Context, o *LabOrder) error {
	o.ID = uuid.New()
	o.UpdatedAt = time.Now()
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (*LabOrder, error) {
	o, ok := m.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) Update(_ context.Context, o *LabOrder) error {
	cur, ok := m.orders[o.ID]
	if !ok || cur.TenantID != o.TenantID {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now()
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) ListByPatient(_ context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*LabOrder, int, error) {
	var result []*LabOrder
	for _, o := range m.orders {
		if o.TenantID == tenantID && o.PatientID == patientID {
			result = append(result, o)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ModifiedBy(_ context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*LabOrder, error) {
	var result []*LabOrder
	for _, o := range m.orders {
		if o.TenantID == tenantID && o.LastModifiedBy == userID &&
			!o.UpdatedAt.Before(from) && !o.UpdatedAt.After(to) {
			result = append(result, o)
		}
	}
	return result, nil
}

func newOrder(t *testing.T, svc *Service, id *auth.Identity) *LabOrder {
	t.Helper()
	o := &LabOrder{PatientID: uuid.New(), TestType: "CBC"}
	if err := svc.Create(context.Background(), id, o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestCreateDefaults(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RolePhysician}

	o := newOrder(t, svc, id)
	if o.Status != StatusOrdered {
		t.Errorf("status = %q, want %q", o.Status, StatusOrdered)
	}
	if o.Priority != PriorityRoutine {
		t.Errorf("priority = %q, want %q", o.Priority, PriorityRoutine)
	}
	if o.OrderedBy != id.UserID {
		t.Errorf("ordered_by = %s, want caller %s", o.OrderedBy, id.UserID)
	}
}

func TestCreateRejectsInvalidPriority(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RolePhysician}

	o := &LabOrder{PatientID: uuid.New(), TestType: "CBC", Priority: "whenever"}
	if err := svc.Create(context.Background(), id, o); err == nil {
		t.Error("expected error for invalid priority")
	}
}

func TestLifecycle(t *testing.T) {
	svc := NewService(newMockRepo())
	resultAt := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return resultAt }
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleLabTechnician}

	o := newOrder(t, svc, id)

	// Cannot complete straight from ordered.
	if _, err := svc.Complete(context.Background(), id, o.ID, "WBC 6.1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete from ordered: err = %v, want ErrInvalidTransition", err)
	}

	if _, err := svc.MarkCollected(context.Background(), id, o.ID); err != nil {
		t.Fatalf("collect: %v", err)
	}

	done, err := svc.Complete(context.Background(), id, o.ID, "WBC 6.1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Results == nil || *done.Results != "WBC 6.1" {
		t.Error("results not stored")
	}
	if done.ResultDate == nil || !done.ResultDate.Equal(resultAt) {
		t.Errorf("result_date = %v, want %v", done.ResultDate, resultAt)
	}

	// Completed orders cannot be cancelled.
	if _, err := svc.Cancel(context.Background(), id, o.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel after complete: err = %v, want ErrInvalidTransition", err)
	}
}

func TestCompleteRequiresResults(t *testing.T) {
	svc := NewService(newMockRepo())
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleLabTechnician}

	o := newOrder(t, svc, id)
	if _, err := svc.MarkCollected(context.Background(), id, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(context.Background(), id, o.ID, ""); err == nil {
		t.Error("expected error for empty results")
	}
}

func TestArchiveSourceIncludesResults(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id := &auth.Identity{UserID: uuid.New(), TenantID: uuid.New(), Role: auth.RoleLabTechnician}

	o := newOrder(t, svc, id)
	if _, err := svc.MarkCollected(context.Background(), id, o.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Complete(context.Background(), id, o.ID, "Hemoglobin 13.2"); err != nil {
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
	if rec.Snapshot.LabOrder == nil || rec.Snapshot.LabOrder.Results == nil {
		t.Fatalf("snapshot missing results: %+v", rec.Snapshot)
	}
	if want := "Hemoglobin 13.2"; *rec.Snapshot.LabOrder.Results != want {
		t.Errorf("results = %q, want %q", *rec.Snapshot.LabOrder.Results, want)
	}
	if err := rec.Snapshot.Validate(); err != nil {
		t.Errorf("snapshot validate: %v", err)
	}
}
