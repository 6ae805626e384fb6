package tenant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no tenant matches the given id, slug, or
// selector.
var ErrNotFound = errors.New("tenant not found")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create onboards a new tenant. Kind is validated here and can never be
// changed afterwards.
func (s *Service) Create(ctx context.Context, t *Tenant) error {
	if t.Name == "" {
		return fmt.Errorf("tenant name is required")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("invalid tenant kind: %q", t.Kind)
	}
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	if !slugPattern.MatchString(t.Slug) {
		return fmt.Errorf("invalid tenant slug: %q", t.Slug)
	}
	t.Status = StatusActive
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// Resolve finds a tenant by selector: a UUID or a slug. Used by the login
// path, where the selector comes straight from the login form.
func (s *Service) Resolve(ctx context.Context, selector string) (*Tenant, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, ErrNotFound
	}
	if id, err := uuid.Parse(selector); err == nil {
		return s.repo.GetByID(ctx, id)
	}
	return s.repo.GetBySlug(ctx, strings.ToLower(selector))
}

// Suspend disables all logins and operations for the tenant.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.setStatus(ctx, id, StatusSuspended)
}

// Activate re-enables a suspended tenant.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.setStatus(ctx, id, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, id uuid.UUID, status string) (*Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Tenant, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, slug)
	return strings.Trim(slug, "-")
}
