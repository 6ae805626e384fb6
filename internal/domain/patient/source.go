package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops/internal/domain/archive"
)

// ArchiveSource adapts the patient repository to the shift archival
// pipeline.
type ArchiveSource struct {
	repo Repository
}

func NewArchiveSource(repo Repository) *ArchiveSource {
	return &ArchiveSource{repo: repo}
}

func (s *ArchiveSource) RecordType() archive.RecordType {
	return archive.RecordTypePatient
}

func (s *ArchiveSource) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]archive.SourceRecord, error) {
	patients, err := s.repo.ModifiedBy(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]archive.SourceRecord, 0, len(patients))
	for _, p := range patients {
		pid := p.ID
		records = append(records, archive.SourceRecord{
			RecordID:  p.ID,
			PatientID: &pid,
			Snapshot: archive.Snapshot{
				Kind: archive.RecordTypePatient,
				Patient: &archive.PatientSnapshot{
					MRN:         p.MRN,
					FirstName:   p.FirstName,
					LastName:    p.LastName,
					DateOfBirth: p.DateOfBirth,
					Gender:      p.Gender,
					Phone:       p.Phone,
					Email:       p.Email,
					Address:     p.Address,
					BloodType:   p.BloodType,
					Allergies:   p.Allergies,
					UpdatedAt:   p.UpdatedAt,
				},
			},
			SearchText: searchText(p),
		})
	}
	return records, nil
}

func searchText(p *Patient) string {
	parts := []string{p.MRN, p.FirstName, p.LastName, p.Gender}
	for _, opt := range []*string{p.Phone, p.Email, p.Allergies} {
		if opt != nil {
			parts = append(parts, *opt)
		}
	}
	return strings.Join(parts, " ")
}
