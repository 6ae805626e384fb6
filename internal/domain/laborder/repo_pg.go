package laborder

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

const labOrderColumns = `id, tenant_id, patient_id, ordered_by, test_type, priority, status,
	results, result_date, notes, last_modified_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, o *LabOrder) error {
	o.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lab_order (id, tenant_id, patient_id, ordered_by, test_type, priority,
			status, notes, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.TenantID, o.PatientID, o.OrderedBy, o.TestType, o.Priority,
		o.Status, o.Notes, o.LastModifiedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LabOrder, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+labOrderColumns+` FROM lab_order WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) Update(ctx context.Context, o *LabOrder) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lab_order SET status = $3, results = $4, result_date = $5, notes = $6,
			last_modified_by = $7, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		o.TenantID, o.ID, o.Status, o.Results, o.ResultDate, o.Notes, o.LastModifiedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*LabOrder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_order WHERE tenant_id = $1 AND patient_id = $2`,
		tenantID, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+labOrderColumns+` FROM lab_order
		WHERE tenant_id = $1 AND patient_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := r.collect(rows)
	return orders, total, err
}

func (r *repoPG) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*LabOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+labOrderColumns+` FROM lab_order
		WHERE tenant_id = $1 AND last_modified_by = $2 AND updated_at >= $3 AND updated_at <= $4`,
		tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*LabOrder, error) {
	var orders []*LabOrder
	for rows.Next() {
		var o LabOrder
		if err := rows.Scan(&o.ID, &o.TenantID, &o.PatientID, &o.OrderedBy, &o.TestType,
			&o.Priority, &o.Status, &o.Results, &o.ResultDate, &o.Notes,
			&o.LastModifiedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*LabOrder, error) {
	var o LabOrder
	err := row.Scan(&o.ID, &o.TenantID, &o.PatientID, &o.OrderedBy, &o.TestType,
		&o.Priority, &o.Status, &o.Results, &o.ResultDate, &o.Notes,
		&o.LastModifiedBy, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
