package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

var (
	ErrNotFound = errors.New("appointment not found")
	// ErrOverlap is returned when the provider already has an appointment
	// in the requested window.
	ErrOverlap = errors.New("provider has an overlapping appointment")
)

const defaultDurationMinutes = 30

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Schedule books an appointment after checking the provider's calendar
// for overlaps. Cancelled and no-show slots do not block.
func (s *Service) Schedule(ctx context.Context, identity *auth.Identity, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.ProviderID == uuid.Nil {
		a.ProviderID = identity.UserID
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = defaultDurationMinutes
	}

	start := a.ScheduledAt
	end := start.Add(time.Duration(a.DurationMinutes) * time.Minute)
	existing, err := s.repo.ListByProvider(ctx, identity.TenantID, a.ProviderID,
		start.Add(-24*time.Hour), end)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.Status != StatusScheduled {
			continue
		}
		eEnd := e.ScheduledAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
		if start.Before(eEnd) && e.ScheduledAt.Before(end) {
			return ErrOverlap
		}
	}

	a.TenantID = identity.TenantID
	a.LastModifiedBy = identity.UserID
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, identity.TenantID, id)
}

func (s *Service) Complete(ctx context.Context, identity *auth.Identity, id uuid.UUID, notes *string) (*Appointment, error) {
	return s.setStatus(ctx, identity, id, StatusCompleted, notes)
}

func (s *Service) Cancel(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, identity, id, StatusCancelled, nil)
}

func (s *Service) MarkNoShow(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Appointment, error) {
	return s.setStatus(ctx, identity, id, StatusNoShow, nil)
}

func (s *Service) setStatus(ctx context.Context, identity *auth.Identity, id uuid.UUID, status string, notes *string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled {
		return nil, fmt.Errorf("appointment is already %s", a.Status)
	}
	a.Status = status
	if notes != nil {
		a.Notes = notes
	}
	a.LastModifiedBy = identity.UserID
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, identity *auth.Identity, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, identity.TenantID, patientID, limit, offset)
}
