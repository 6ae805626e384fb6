package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

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

const archivedColumns = `id, tenant_id, work_shift_id, record_type, record_id, patient_id,
	original_data, searchable_content, archived_by, archived_at, retention_period_days,
	last_accessed_by, last_accessed_at, access_count, created_at`

func (r *repoPG) CreateBatch(ctx context.Context, records []*ArchivedRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, rec := range records {
		rec.ID = uuid.New()
		data, err := rec.MarshalData()
		if err != nil {
			return 0, fmt.Errorf("marshal snapshot for %s/%s: %w", rec.RecordType, rec.RecordID, err)
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO archived_record (id, tenant_id, work_shift_id, record_type, record_id,
				patient_id, original_data, searchable_content, archived_by, archived_at,
				retention_period_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (work_shift_id, record_type, record_id) DO NOTHING`,
			rec.ID, rec.TenantID, rec.WorkShiftID, rec.RecordType, rec.RecordID,
			rec.PatientID, data, rec.SearchableContent, rec.ArchivedBy, rec.ArchivedAt,
			rec.RetentionPeriodDays,
		)
		if err != nil {
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *repoPG) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ArchivedRecord, error) {
	return r.scan(r.pool.QueryRow(ctx,
		`SELECT `+archivedColumns+` FROM archived_record WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
}

// searchQuery builds the COUNT and page queries for a content search.
// The WHERE clause embeds literal % characters for ILIKE, so placeholders
// are concatenated rather than formatted.
func searchQuery(recordType *RecordType) (countSQL, rowsSQL string) {
	where := `tenant_id = $1 AND searchable_content ILIKE '%' || $2 || '%'`
	n := 2
	if recordType != nil {
		n++
		where += ` AND record_type = $3`
	}
	countSQL = `SELECT COUNT(*) FROM archived_record WHERE ` + where
	rowsSQL = `SELECT ` + archivedColumns + ` FROM archived_record WHERE ` + where +
		` ORDER BY archived_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	return countSQL, rowsSQL
}

func (r *repoPG) Search(ctx context.Context, tenantID uuid.UUID, query string, recordType *RecordType, limit, offset int) ([]*ArchivedRecord, int, error) {
	countSQL, rowsSQL := searchQuery(recordType)
	args := []any{tenantID, query}
	if recordType != nil {
		args = append(args, *recordType)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, rowsSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := r.collect(rows)
	return records, total, err
}

func (r *repoPG) ListByShift(ctx context.Context, tenantID, shiftID uuid.UUID) ([]*ArchivedRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+archivedColumns+` FROM archived_record
		WHERE tenant_id = $1 AND work_shift_id = $2 ORDER BY record_type, archived_at`,
		tenantID, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) RecordAccess(ctx context.Context, tenantID, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE archived_record
		SET access_count = access_count + 1, last_accessed_by = $3, last_accessed_at = NOW()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) collect(rows pgx.Rows) ([]*ArchivedRecord, error) {
	var records []*ArchivedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*ArchivedRecord, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (*ArchivedRecord, error) {
	var rec ArchivedRecord
	var data []byte
	if err := row.Scan(&rec.ID, &rec.TenantID, &rec.WorkShiftID, &rec.RecordType, &rec.RecordID,
		&rec.PatientID, &data, &rec.SearchableContent, &rec.ArchivedBy, &rec.ArchivedAt,
		&rec.RetentionPeriodDays, &rec.LastAccessedBy, &rec.LastAccessedAt,
		&rec.AccessCount, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &rec.OriginalData); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
