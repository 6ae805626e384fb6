package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

var ErrNotFound = errors.New("patient not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, identity *auth.Identity, p *Patient) error {
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if p.DateOfBirth.IsZero() {
		return fmt.Errorf("date of birth is required")
	}
	p.TenantID = identity.TenantID
	p.LastModifiedBy = identity.UserID
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, identity.TenantID, id)
}

func (s *Service) Update(ctx context.Context, identity *auth.Identity, p *Patient) error {
	current, err := s.repo.GetByID(ctx, identity.TenantID, p.ID)
	if err != nil {
		return err
	}
	// MRN is assigned at registration and never rewritten.
	p.TenantID = current.TenantID
	p.MRN = current.MRN
	p.LastModifiedBy = identity.UserID
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error {
	return s.repo.Delete(ctx, identity.TenantID, id)
}

func (s *Service) List(ctx context.Context, identity *auth.Identity, query string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, identity.TenantID, strings.TrimSpace(query), limit, offset)
}
