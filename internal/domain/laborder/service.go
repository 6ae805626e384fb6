package laborder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

var (
	ErrNotFound          = errors.New("lab order not found")
	ErrInvalidTransition = errors.New("invalid lab order status transition")
)

// transitions encodes the allowed status graph. Cancellation is allowed
// from any state before results exist.
var transitions = map[string][]string{
	StatusOrdered:   {StatusCollected, StatusCancelled},
	StatusCollected: {StatusCompleted, StatusCancelled},
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, identity *auth.Identity, o *LabOrder) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.TestType == "" {
		return fmt.Errorf("test_type is required")
	}
	if o.Priority == "" {
		o.Priority = PriorityRoutine
	}
	if !validPriority(o.Priority) {
		return fmt.Errorf("invalid priority: %q", o.Priority)
	}
	o.TenantID = identity.TenantID
	o.OrderedBy = identity.UserID
	o.LastModifiedBy = identity.UserID
	o.Status = StatusOrdered
	return s.repo.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*LabOrder, error) {
	return s.repo.GetByID(ctx, identity.TenantID, id)
}

// MarkCollected records that the specimen was taken.
func (s *Service) MarkCollected(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*LabOrder, error) {
	return s.transition(ctx, identity, id, StatusCollected, func(*LabOrder) {})
}

// Complete attaches results and stamps the result date.
func (s *Service) Complete(ctx context.Context, identity *auth.Identity, id uuid.UUID, results string) (*LabOrder, error) {
	if results == "" {
		return nil, fmt.Errorf("results are required to complete a lab order")
	}
	return s.transition(ctx, identity, id, StatusCompleted, func(o *LabOrder) {
		o.Results = &results
		now := s.now()
		o.ResultDate = &now
	})
}

func (s *Service) Cancel(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*LabOrder, error) {
	return s.transition(ctx, identity, id, StatusCancelled, func(*LabOrder) {})
}

func (s *Service) transition(ctx context.Context, identity *auth.Identity, id uuid.UUID, to string, apply func(*LabOrder)) (*LabOrder, error) {
	o, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !allowed(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	apply(o)
	o.Status = to
	o.LastModifiedBy = identity.UserID
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func allowed(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Service) ListByPatient(ctx context.Context, identity *auth.Identity, patientID uuid.UUID, limit, offset int) ([]*LabOrder, int, error) {
	return s.repo.ListByPatient(ctx, identity.TenantID, patientID, limit, offset)
}
