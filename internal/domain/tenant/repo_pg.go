package tenant

import (
	"context"
	"errors"

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

const tenantColumns = `id, slug, name, kind, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, t *Tenant) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tenant (id, slug, name, kind, status)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Slug, t.Name, t.Kind, t.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenant WHERE id = $1`, id))
}

func (r *repoPG) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenant WHERE slug = $1`, slug))
}

func (r *repoPG) Update(ctx context.Context, t *Tenant) error {
	// kind is immutable after onboarding and is deliberately absent here.
	tag, err := r.pool.Exec(ctx, `
		UPDATE tenant SET name = $2, status = $3, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Tenant, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenant`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenant ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenants []*Tenant
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, t)
	}
	return tenants, total, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Kind, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) scanRow(rows pgx.Rows) (*Tenant, error) {
	var t Tenant
	if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Kind, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
