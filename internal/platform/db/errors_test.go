package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "work_shift_one_active"}
	if !IsUniqueViolation(pgErr) {
		t.Error("expected true for 23505")
	}
	if !IsUniqueViolation(fmt.Errorf("insert shift: %w", pgErr)) {
		t.Error("expected true for wrapped 23505")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected false for foreign key violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("expected false for plain error")
	}
	if IsUniqueViolation(nil) {
		t.Error("expected false for nil")
	}
}
