package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

var (
	ErrNotFound          = errors.New("prescription not found")
	ErrInvalidTransition = errors.New("invalid prescription status transition")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, identity *auth.Identity, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.MedicationName == "" || p.Dosage == "" || p.Frequency == "" {
		return fmt.Errorf("medication, dosage and frequency are required")
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if p.Refills < 0 {
		return fmt.Errorf("refills cannot be negative")
	}
	p.TenantID = identity.TenantID
	p.PrescriberID = identity.UserID
	p.LastModifiedBy = identity.UserID
	p.Status = StatusActive
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, identity.TenantID, id)
}

// Fill marks an active prescription as dispensed. Only the pharmacist
// path calls this.
func (s *Service) Fill(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Prescription, error) {
	return s.transition(ctx, identity, id, StatusActive, StatusFilled)
}

func (s *Service) Cancel(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Prescription, error) {
	return s.transition(ctx, identity, id, StatusActive, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, identity *auth.Identity, id uuid.UUID, from, to string) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if p.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	p.LastModifiedBy = identity.UserID
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByPatient(ctx context.Context, identity *auth.Identity, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, identity.TenantID, patientID, limit, offset)
}
