package laborder

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
	return archive.RecordTypeLabOrder
}

func (s *ArchiveSource) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]archive.SourceRecord, error) {
	orders, err := s.repo.ModifiedBy(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]archive.SourceRecord, 0, len(orders))
	for _, o := range orders {
		pid := o.PatientID
		search := fmt.Sprintf("%s %s %s", o.TestType, o.Priority, o.Status)
		if o.Results != nil {
			search += " " + *o.Results
		}
		records = append(records, archive.SourceRecord{
			RecordID:  o.ID,
			PatientID: &pid,
			Snapshot: archive.Snapshot{
				Kind: archive.RecordTypeLabOrder,
				LabOrder: &archive.LabOrderSnapshot{
					PatientID:  o.PatientID,
					OrderedBy:  o.OrderedBy,
					TestType:   o.TestType,
					Priority:   o.Priority,
					Status:     o.Status,
					Results:    o.Results,
					ResultDate: o.ResultDate,
					UpdatedAt:  o.UpdatedAt,
				},
			},
			SearchText: search,
		})
	}
	return records, nil
}
