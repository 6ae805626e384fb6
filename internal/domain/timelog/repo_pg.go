package timelog

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

const timeLogColumns = `id, tenant_id, user_id, work_shift_id, clock_in, clock_out,
	clock_in_location, clock_out_location, break_minutes, total_hours, overtime_hours,
	status, approved_by, approved_at, dispute_reason, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, l *TimeLog) error {
	l.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO time_log (id, tenant_id, user_id, work_shift_id, clock_in,
			clock_in_location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.TenantID, l.UserID, l.WorkShiftID, l.ClockIn, l.ClockInLocation, l.Status,
	)
	if db.IsUniqueViolation(err) {
		return ErrAlreadyClockedIn
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TimeLog, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+timeLogColumns+` FROM time_log WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) GetOpenByUser(ctx context.Context, tenantID, userID uuid.UUID) (*TimeLog, error) {
	return r.scan(r.pool.QueryRow(ctx, `
		SELECT `+timeLogColumns+` FROM time_log
		WHERE tenant_id = $1 AND user_id = $2 AND status = $3`,
		tenantID, userID, StatusClockedIn))
}

func (r *repoPG) Update(ctx context.Context, l *TimeLog) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE time_log SET clock_out = $3, clock_out_location = $4, break_minutes = $5,
			total_hours = $6, overtime_hours = $7, status = $8, approved_by = $9,
			approved_at = $10, dispute_reason = $11, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		l.TenantID, l.ID, l.ClockOut, l.ClockOutLocation, l.BreakMinutes, l.TotalHours,
		l.OvertimeHours, l.Status, l.ApprovedBy, l.ApprovedAt, l.DisputeReason,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]*TimeLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+timeLogColumns+` FROM time_log
		WHERE tenant_id = $1 AND user_id = $2 AND clock_in >= $3 AND clock_in < $4
		ORDER BY clock_in`,
		tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) List(ctx context.Context, tenantID uuid.UUID, status *string, limit, offset int) ([]*TimeLog, int, error) {
	where := `tenant_id = $1`
	args := []any{tenantID}
	if status != nil {
		where += ` AND status = $2`
		args = append(args, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM time_log WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + timeLogColumns + ` FROM time_log WHERE ` + where +
		` ORDER BY clock_in DESC LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs, err := r.collect(rows)
	return logs, total, err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*TimeLog, error) {
	var logs []*TimeLog
	for rows.Next() {
		var l TimeLog
		if err := rows.Scan(&l.ID, &l.TenantID, &l.UserID, &l.WorkShiftID, &l.ClockIn, &l.ClockOut,
			&l.ClockInLocation, &l.ClockOutLocation, &l.BreakMinutes, &l.TotalHours,
			&l.OvertimeHours, &l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.DisputeReason,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*TimeLog, error) {
	var l TimeLog
	err := row.Scan(&l.ID, &l.TenantID, &l.UserID, &l.WorkShiftID, &l.ClockIn, &l.ClockOut,
		&l.ClockInLocation, &l.ClockOutLocation, &l.BreakMinutes, &l.TotalHours,
		&l.OvertimeHours, &l.Status, &l.ApprovedBy, &l.ApprovedAt, &l.DisputeReason,
		&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
