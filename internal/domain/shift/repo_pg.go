package shift

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/careops/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const shiftColumns = `id, tenant_id, user_id, shift_type, status, start_time, end_time,
	notes, archived_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, w *WorkShift) error {
	w.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO work_shift (id, tenant_id, user_id, shift_type, status, start_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID, w.TenantID, w.UserID, w.ShiftType, w.Status, w.StartTime, w.Notes,
	)
	if db.IsUniqueViolation(err) {
		return ErrShiftAlreadyActive
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*WorkShift, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+shiftColumns+` FROM work_shift WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) GetActiveByUser(ctx context.Context, tenantID, userID uuid.UUID) (*WorkShift, error) {
	return r.scan(r.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+` FROM work_shift
		WHERE tenant_id = $1 AND user_id = $2 AND status = $3`,
		tenantID, userID, StatusActive))
}

func (r *repoPG) End(ctx context.Context, tenantID, id uuid.UUID, endTime time.Time) (*WorkShift, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE work_shift SET status = $4, end_time = $5, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $3
		RETURNING `+shiftColumns,
		tenantID, id, StatusActive, StatusEnded, endTime)
	w, err := r.scan(row)
	if errors.Is(err, ErrNotFound) {
		// Either the shift does not exist or it is no longer active.
		if _, getErr := r.GetByID(ctx, tenantID, id); getErr == nil {
			return nil, ErrNoActiveShift
		}
		return nil, ErrNotFound
	}
	return w, err
}

func (r *repoPG) MarkArchived(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE work_shift SET archived_at = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, limit, offset int) ([]*WorkShift, int, error) {
	where := `tenant_id = $1`
	args := []any{tenantID}
	if userID != nil {
		where += ` AND user_id = $2`
		args = append(args, *userID)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM work_shift WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + shiftColumns + ` FROM work_shift WHERE ` + where +
		` ORDER BY start_time DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var shifts []*WorkShift
	for rows.Next() {
		var w WorkShift
		if err := rows.Scan(&w.ID, &w.TenantID, &w.UserID, &w.ShiftType, &w.Status, &w.StartTime,
			&w.EndTime, &w.Notes, &w.ArchivedAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		shifts = append(shifts, &w)
	}
	return shifts, total, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*WorkShift, error) {
	var w WorkShift
	err := row.Scan(&w.ID, &w.TenantID, &w.UserID, &w.ShiftType, &w.Status, &w.StartTime,
		&w.EndTime, &w.Notes, &w.ArchivedAt, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
