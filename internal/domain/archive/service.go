package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/careops/careops/internal/platform/auth"
)

// MinQueryLength guards the search endpoint against full-table scans on
// one- and two-character patterns.
const MinQueryLength = 3

var (
	ErrNotFound      = errors.New("archived record not found")
	ErrQueryTooShort = fmt.Errorf("search query must be at least %d characters", MinQueryLength)
)

type Service struct {
	repo    Repository
	sources map[RecordType]Source
	now     func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:    repo,
		sources: make(map[RecordType]Source),
		now:     time.Now,
	}
}

// RegisterSource adds a clinical domain to the pipeline. Called once per
// record type at startup; a duplicate registration is a wiring bug.
func (s *Service) RegisterSource(src Source) {
	rt := src.RecordType()
	if _, dup := s.sources[rt]; dup {
		panic(fmt.Sprintf("archive: source for %q registered twice", rt))
	}
	s.sources[rt] = src
}

// ArchiveShift snapshots every record the shift's user modified during the
// shift window and returns the number of new archive rows. Records already
// archived for this shift are skipped, so the call is safe to retry.
func (s *Service) ArchiveShift(ctx context.Context, tenantID, shiftID, userID uuid.UUID, from, to time.Time) (int, error) {
	var batch []*ArchivedRecord
	archivedAt := s.now()

	for _, rt := range s.sortedTypes() {
		src := s.sources[rt]
		sourceRecords, err := src.ModifiedBy(ctx, tenantID, userID, from, to)
		if err != nil {
			return 0, fmt.Errorf("collect %s records: %w", rt, err)
		}
		for _, sr := range sourceRecords {
			if err := sr.Snapshot.Validate(); err != nil {
				return 0, fmt.Errorf("%s source produced bad snapshot: %w", rt, err)
			}
			batch = append(batch, &ArchivedRecord{
				TenantID:            tenantID,
				WorkShiftID:         shiftID,
				RecordType:          rt,
				RecordID:            sr.RecordID,
				PatientID:           sr.PatientID,
				OriginalData:        sr.Snapshot,
				SearchableContent:   strings.ToLower(sr.SearchText),
				ArchivedBy:          userID,
				ArchivedAt:          archivedAt,
				RetentionPeriodDays: RetentionFor(rt),
			})
		}
	}

	inserted, err := s.repo.CreateBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("persist archive batch: %w", err)
	}
	log.Info().
		Str("shift_id", shiftID.String()).
		Int("collected", len(batch)).
		Int("inserted", inserted).
		Msg("shift archival complete")
	return inserted, nil
}

func (s *Service) sortedTypes() []RecordType {
	types := make([]RecordType, 0, len(s.sources))
	for rt := range s.sources {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Search runs a substring match over searchable_content within the
// caller's tenant. Every hit has its access counter bumped under the
// caller's identity before the results are returned.
func (s *Service) Search(ctx context.Context, identity *auth.Identity, query string, recordType *RecordType, limit, offset int) ([]*ArchivedRecord, int, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return nil, 0, ErrQueryTooShort
	}
	if recordType != nil && !recordType.Valid() {
		return nil, 0, fmt.Errorf("unknown record type: %q", *recordType)
	}

	records, total, err := s.repo.Search(ctx, identity.TenantID, strings.ToLower(query), recordType, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	for _, rec := range records {
		if err := s.repo.RecordAccess(ctx, identity.TenantID, rec.ID, identity.UserID); err != nil {
			log.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("access tracking failed")
			continue
		}
		rec.AccessCount++
		uid := identity.UserID
		rec.LastAccessedBy = &uid
		rec.LastAccessedAt = &now
	}
	return records, total, nil
}

// Get fetches a single archived record and tracks the access.
func (s *Service) Get(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*ArchivedRecord, error) {
	rec, err := s.repo.GetByID(ctx, identity.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecordAccess(ctx, identity.TenantID, rec.ID, identity.UserID); err != nil {
		log.Warn().Err(err).Str("record_id", rec.ID.String()).Msg("access tracking failed")
	} else {
		rec.AccessCount++
		uid := identity.UserID
		now := s.now()
		rec.LastAccessedBy = &uid
		rec.LastAccessedAt = &now
	}
	return rec, nil
}

func (s *Service) ListByShift(ctx context.Context, identity *auth.Identity, shiftID uuid.UUID) ([]*ArchivedRecord, error) {
	return s.repo.ListByShift(ctx, identity.TenantID, shiftID)
}
