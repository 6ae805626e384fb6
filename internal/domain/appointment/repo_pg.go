package appointment

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

const appointmentColumns = `id, tenant_id, patient_id, provider_id, scheduled_at, duration_minutes,
	status, reason, notes, last_modified_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, tenant_id, patient_id, provider_id, scheduled_at,
			duration_minutes, status, reason, notes, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.TenantID, a.PatientID, a.ProviderID, a.ScheduledAt,
		a.DurationMinutes, a.Status, a.Reason, a.Notes, a.LastModifiedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointment WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET scheduled_at = $3, duration_minutes = $4, status = $5,
			reason = $6, notes = $7, last_modified_by = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		a.TenantID, a.ID, a.ScheduledAt, a.DurationMinutes, a.Status,
		a.Reason, a.Notes, a.LastModifiedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByProvider(ctx context.Context, tenantID, providerID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+` FROM appointment
		WHERE tenant_id = $1 AND provider_id = $2 AND scheduled_at >= $3 AND scheduled_at < $4
		ORDER BY scheduled_at`,
		tenantID, providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE tenant_id = $1 AND patient_id = $2`,
		tenantID, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+` FROM appointment
		WHERE tenant_id = $1 AND patient_id = $2 ORDER BY scheduled_at DESC LIMIT $3 OFFSET $4`,
		tenantID, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appointments, err := r.collect(rows)
	return appointments, total, err
}

func (r *repoPG) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+` FROM appointment
		WHERE tenant_id = $1 AND last_modified_by = $2 AND updated_at >= $3 AND updated_at <= $4`,
		tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	var appointments []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.ProviderID, &a.ScheduledAt,
			&a.DurationMinutes, &a.Status, &a.Reason, &a.Notes,
			&a.LastModifiedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appointments = append(appointments, &a)
	}
	return appointments, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.ProviderID, &a.ScheduledAt,
		&a.DurationMinutes, &a.Status, &a.Reason, &a.Notes,
		&a.LastModifiedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
