package prescription

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
	return archive.RecordTypePrescription
}

func (s *ArchiveSource) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]archive.SourceRecord, error) {
	prescriptions, err := s.repo.ModifiedBy(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]archive.SourceRecord, 0, len(prescriptions))
	for _, p := range prescriptions {
		pid := p.PatientID
		search := fmt.Sprintf("%s %s %s %s", p.MedicationName, p.Dosage, p.Frequency, p.Status)
		if p.Notes != nil {
			search += " " + *p.Notes
		}
		records = append(records, archive.SourceRecord{
			RecordID:  p.ID,
			PatientID: &pid,
			Snapshot: archive.Snapshot{
				Kind: archive.RecordTypePrescription,
				Prescription: &archive.PrescriptionSnapshot{
					PatientID:      p.PatientID,
					PrescriberID:   p.PrescriberID,
					MedicationName: p.MedicationName,
					Dosage:         p.Dosage,
					Frequency:      p.Frequency,
					Quantity:       p.Quantity,
					Refills:        p.Refills,
					Status:         p.Status,
					Notes:          p.Notes,
					UpdatedAt:      p.UpdatedAt,
				},
			},
			SearchText: search,
		})
	}
	return records, nil
}
