package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain/archive"
)

type ArchiveSource struct {
	repo Repository
}

func NewArchiveSource(repo Repository) *ArchiveSource {
	return &ArchiveSource{repo: repo}
}

func (s *ArchiveSource) RecordType() archive.RecordType {
	return archive.RecordTypeAppointment
}

func (s *ArchiveSource) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]archive.SourceRecord, error) {
	appointments, err := s.repo.ModifiedBy(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]archive.SourceRecord, 0, len(appointments))
	for _, a := range appointments {
		pid := a.PatientID
		search := fmt.Sprintf("%s %s", a.Status, a.ScheduledAt.Format("2006-01-02"))
		if a.Reason != nil {
			search += " " + *a.Reason
		}
		records = append(records, archive.SourceRecord{
			RecordID:  a.ID,
			PatientID: &pid,
			Snapshot: archive.Snapshot{
				Kind: archive.RecordTypeAppointment,
				Appointment: &archive.AppointmentSnapshot{
					PatientID:       a.PatientID,
					ProviderID:      a.ProviderID,
					ScheduledAt:     a.ScheduledAt,
					DurationMinutes: a.DurationMinutes,
					Status:          a.Status,
					Reason:          a.Reason,
					UpdatedAt:       a.UpdatedAt,
				},
			},
			SearchText: search,
		})
	}
	return records, nil
}
