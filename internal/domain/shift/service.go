package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/careops/careops/internal/platform/auth"
)

var (
	ErrNotFound           = errors.New("shift not found")
	ErrShiftAlreadyActive = errors.New("user already has an active shift")
	ErrNoActiveShift      = errors.New("shift is not active")
	ErrNotShiftOwner      = errors.New("shift belongs to another user")
	ErrAlreadyArchived    = errors.New("shift is already archived")
)

// Archiver snapshots the records a user touched during a shift window.
// Implemented by the archive service; the indirection keeps this package
// free of a dependency on the pipeline internals.
type Archiver interface {
	ArchiveShift(ctx context.Context, tenantID, shiftID, userID uuid.UUID, from, to time.Time) (int, error)
}

type Service struct {
	repo     Repository
	archiver Archiver
	now      func() time.Time
}

func NewService(repo Repository, archiver Archiver) *Service {
	return &Service{repo: repo, archiver: archiver, now: time.Now}
}

// Start opens a shift for the caller. The pre-check gives a friendly error
// in the common case; the storage-level unique index is the real guard and
// catches the race between two concurrent starts.
func (s *Service) Start(ctx context.Context, identity *auth.Identity, shiftType string, notes *string) (*WorkShift, error) {
	if !validShiftType(shiftType) {
		return nil, fmt.Errorf("invalid shift type: %q", shiftType)
	}
	if _, err := s.repo.GetActiveByUser(ctx, identity.TenantID, identity.UserID); err == nil {
		return nil, ErrShiftAlreadyActive
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	w := &WorkShift{
		TenantID:  identity.TenantID,
		UserID:    identity.UserID,
		ShiftType: shiftType,
		Status:    StatusActive,
		StartTime: s.now(),
		Notes:     notes,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// End closes a shift and kicks off archival of the records its user
// modified during the window. The status transition commits first: if
// archival fails the shift stays ended and the pipeline can be re-run
// through RunArchival with the same frozen end time.
func (s *Service) End(ctx context.Context, identity *auth.Identity, shiftID uuid.UUID) (*WorkShift, error) {
	w, err := s.repo.GetByID(ctx, identity.TenantID, shiftID)
	if err != nil {
		return nil, err
	}
	if w.UserID != identity.UserID && !auth.Can(identity.Role, auth.CapShiftAdmin) {
		return nil, ErrNotShiftOwner
	}

	ended, err := s.repo.End(ctx, identity.TenantID, shiftID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.archive(ctx, ended); err != nil {
		log.Error().Err(err).
			Str("shift_id", ended.ID.String()).
			Msg("shift archival failed, shift remains ended")
	}
	return ended, nil
}

// RunArchival re-runs the pipeline for an ended shift. Used to recover
// from an archival failure during End; already-archived records are
// skipped so the retry is safe.
func (s *Service) RunArchival(ctx context.Context, identity *auth.Identity, shiftID uuid.UUID) (*WorkShift, error) {
	w, err := s.repo.GetByID(ctx, identity.TenantID, shiftID)
	if err != nil {
		return nil, err
	}
	if w.Active() {
		return nil, fmt.Errorf("shift is still active")
	}
	if err := s.archive(ctx, w); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, identity.TenantID, shiftID)
}

func (s *Service) archive(ctx context.Context, w *WorkShift) error {
	if w.EndTime == nil {
		return fmt.Errorf("shift %s has no end time", w.ID)
	}
	if _, err := s.archiver.ArchiveShift(ctx, w.TenantID, w.ID, w.UserID, w.StartTime, *w.EndTime); err != nil {
		return err
	}
	return s.repo.MarkArchived(ctx, w.TenantID, w.ID, s.now())
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, shiftID uuid.UUID) (*WorkShift, error) {
	w, err := s.repo.GetByID(ctx, identity.TenantID, shiftID)
	if err != nil {
		return nil, err
	}
	if w.UserID != identity.UserID && !identity.Role.Supervisory() {
		return nil, ErrNotFound
	}
	return w, nil
}

// List returns shifts in the caller's tenant. Non-supervisory roles only
// ever see their own shifts regardless of the filter they pass.
func (s *Service) List(ctx context.Context, identity *auth.Identity, userID *uuid.UUID, limit, offset int) ([]*WorkShift, int, error) {
	if !identity.Role.Supervisory() {
		uid := identity.UserID
		userID = &uid
	}
	return s.repo.List(ctx, identity.TenantID, userID, limit, offset)
}
