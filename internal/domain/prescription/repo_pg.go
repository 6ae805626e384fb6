package prescription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const prescriptionColumns = `id, tenant_id, patient_id, prescriber_id, medication_name,
	dosage, frequency, quantity, refills, status, notes, last_modified_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prescription (id, tenant_id, patient_id, prescriber_id, medication_name,
			dosage, frequency, quantity, refills, status, notes, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.TenantID, p.PatientID, p.PrescriberID, p.MedicationName,
		p.Dosage, p.Frequency, p.Quantity, p.Refills, p.Status, p.Notes, p.LastModifiedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Prescription, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+prescriptionColumns+` FROM prescription WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prescription SET dosage = $3, frequency = $4, quantity = $5, refills = $6,
			status = $7, notes = $8, last_modified_by = $9, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		p.TenantID, p.ID, p.Dosage, p.Frequency, p.Quantity, p.Refills,
		p.Status, p.Notes, p.LastModifiedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM prescription WHERE tenant_id = $1 AND patient_id = $2`,
		tenantID, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+prescriptionColumns+` FROM prescription
		WHERE tenant_id = $1 AND patient_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	prescriptions, err := r.collect(rows)
	return prescriptions, total, err
}

func (r *repoPG) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prescriptionColumns+` FROM prescription
		WHERE tenant_id = $1 AND last_modified_by = $2 AND updated_at >= $3 AND updated_at <= $4`,
		tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Prescription, error) {
	var prescriptions []*Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.TenantID, &p.PatientID, &p.PrescriberID, &p.MedicationName,
			&p.Dosage, &p.Frequency, &p.Quantity, &p.Refills, &p.Status, &p.Notes,
			&p.LastModifiedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prescriptions = append(prescriptions, &p)
	}
	return prescriptions, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.TenantID, &p.PatientID, &p.PrescriberID, &p.MedicationName,
		&p.Dosage, &p.Frequency, &p.Quantity, &p.Refills, &p.Status, &p.Notes,
		&p.LastModifiedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
