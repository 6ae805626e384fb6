package patient

import (
	"context"
	"errors"
	"fmt"
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

const patientColumns = `id, tenant_id, mrn, first_name, last_name, date_of_birth, gender,
	phone, email, address, blood_type, allergies, last_modified_by, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, tenant_id, mrn, first_name, last_name, date_of_birth,
			gender, phone, email, address, blood_type, allergies, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.TenantID, p.MRN, p.FirstName, p.LastName, p.DateOfBirth,
		p.Gender, p.Phone, p.Email, p.Address, p.BloodType, p.Allergies, p.LastModifiedBy,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Patient, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+` FROM patient WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient SET first_name = $3, last_name = $4, date_of_birth = $5, gender = $6,
			phone = $7, email = $8, address = $9, blood_type = $10, allergies = $11,
			last_modified_by = $12, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		p.TenantID, p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender,
		p.Phone, p.Email, p.Address, p.BloodType, p.Allergies, p.LastModifiedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM patient WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, tenantID uuid.UUID, query string, limit, offset int) ([]*Patient, int, error) {
	where := `tenant_id = $1`
	args := []any{tenantID}
	if query != "" {
		where += ` AND (first_name ILIKE '%' || $2 || '%' OR last_name ILIKE '%' || $2 || '%' OR mrn ILIKE '%' || $2 || '%')`
		args = append(args, query)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM patient WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+` FROM patient
		WHERE `+where+` ORDER BY last_name, first_name`+
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	patients, err := r.collect(rows)
	return patients, total, err
}

func (r *repoPG) ModifiedBy(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+` FROM patient
		WHERE tenant_id = $1 AND last_modified_by = $2 AND updated_at >= $3 AND updated_at <= $4`,
		tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Patient, error) {
	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.TenantID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth,
			&p.Gender, &p.Phone, &p.Email, &p.Address, &p.BloodType, &p.Allergies,
			&p.LastModifiedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.TenantID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Gender, &p.Phone, &p.Email, &p.Address, &p.BloodType, &p.Allergies,
		&p.LastModifiedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
