package timelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/platform/auth"
)

var (
	ErrNotFound         = errors.New("time log not found")
	ErrAlreadyClockedIn = errors.New("user is already clocked in")
	ErrNotClockedIn     = errors.New("user is not clocked in")
	ErrNotApprovable    = errors.New("only clocked-out entries can be approved")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ClockIn opens a time entry for the caller, optionally linked to a work
// shift. The open-entry uniqueness is enforced by storage; the pre-check
// only shortcuts the common case.
func (s *Service) ClockIn(ctx context.Context, identity *auth.Identity, workShiftID *uuid.UUID, location *string) (*TimeLog, error) {
	if _, err := s.repo.GetOpenByUser(ctx, identity.TenantID, identity.UserID); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	l := &TimeLog{
		TenantID:        identity.TenantID,
		UserID:          identity.UserID,
		WorkShiftID:     workShiftID,
		ClockIn:         s.now(),
		ClockInLocation: location,
		Status:          StatusClockedIn,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ClockOut closes the caller's open entry. Total hours are the elapsed
// wall-clock hours minus the unpaid break, floored at zero; anything over
// the regular daily threshold is overtime.
func (s *Service) ClockOut(ctx context.Context, identity *auth.Identity, breakMinutes int, location *string) (*TimeLog, error) {
	if breakMinutes < 0 {
		return nil, fmt.Errorf("break_minutes cannot be negative")
	}
	l, err := s.repo.GetOpenByUser(ctx, identity.TenantID, identity.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotClockedIn
	}
	if err != nil {
		return nil, err
	}

	out := s.now()
	total := out.Sub(l.ClockIn).Hours() - float64(breakMinutes)/60
	if total < 0 {
		total = 0
	}
	overtime := total - regularHours
	if overtime < 0 {
		overtime = 0
	}

	l.ClockOut = &out
	l.ClockOutLocation = location
	l.BreakMinutes = breakMinutes
	l.TotalHours = &total
	l.OvertimeHours = &overtime
	l.Status = StatusClockedOut
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Approve signs off a clocked-out entry. Users cannot approve their own
// time.
func (s *Service) Approve(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*TimeLog, error) {
	l, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusClockedOut {
		return nil, fmt.Errorf("%w: entry is %s", ErrNotApprovable, l.Status)
	}
	if l.UserID == identity.UserID {
		return nil, fmt.Errorf("cannot approve your own time entry")
	}

	now := s.now()
	approver := identity.UserID
	l.Status = StatusApproved
	l.ApprovedBy = &approver
	l.ApprovedAt = &now
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Dispute flags a clocked-out entry for review instead of approving it.
func (s *Service) Dispute(ctx context.Context, identity *auth.Identity, id uuid.UUID, reason string) (*TimeLog, error) {
	if reason == "" {
		return nil, fmt.Errorf("dispute reason is required")
	}
	l, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusClockedOut {
		return nil, fmt.Errorf("%w: entry is %s", ErrNotApprovable, l.Status)
	}
	l.Status = StatusDisputed
	l.DisputeReason = &reason
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// WeekBounds returns the half-open week [Monday 00:00 UTC, next Monday)
// containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	wd := (int(t.Weekday()) + 6) % 7 // Monday = 0
	start := time.Date(t.Year(), t.Month(), t.Day()-wd, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7)
}

// WeeklySummaryFor aggregates a user's clocked-out, approved and disputed
// time for the week containing at. Open entries are excluded since their
// totals do not exist yet.
func (s *Service) WeeklySummaryFor(ctx context.Context, identity *auth.Identity, userID uuid.UUID, at time.Time) (*WeeklySummary, error) {
	if userID != identity.UserID && !identity.Role.Supervisory() {
		return nil, fmt.Errorf("cannot view another user's summary")
	}

	start, end := WeekBounds(at)
	logs, err := s.repo.ListByUser(ctx, identity.TenantID, userID, start, end)
	if err != nil {
		return nil, err
	}

	sum := &WeeklySummary{UserID: userID, WeekStart: start, WeekEnd: end}
	for _, l := range logs {
		if l.TotalHours == nil {
			continue
		}
		sum.TotalHours += *l.TotalHours
		if l.OvertimeHours != nil {
			sum.OvertimeHours += *l.OvertimeHours
		}
		sum.Entries++
	}
	return sum, nil
}

func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*TimeLog, error) {
	l, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != identity.UserID && !identity.Role.Supervisory() {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, identity *auth.Identity, status *string, limit, offset int) ([]*TimeLog, int, error) {
	return s.repo.List(ctx, identity.TenantID, status, limit, offset)
}
