package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	if !IsUniqueViolation(dup, "") {
		t.Error("Expected any-constraint match")
	}
	if !IsUniqueViolation(fmt.Errorf("insert user: %w", dup), "users_email_key") {
		t.Error("Expected wrapped error to match named constraint")
	}
	if IsUniqueViolation(dup, "meals_pkey") {
		t.Error("Expected constraint name mismatch to be rejected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("Expected foreign key violation to be rejected")
	}
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Error("Expected plain error to be rejected")
	}
}

func TestHealth_Up(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()

	stats := NewFromDB(db).Health()
	if stats["status"] != "up" {
		t.Errorf("Expected status up, got %v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHealth_Down(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	stats := NewFromDB(db).Health()
	if stats["status"] != "down" {
		t.Errorf("Expected status down, got %v", stats)
	}
}

func TestExecQueryPassThrough(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	svc := NewFromDB(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM sessions").WithArgs("k").WillReturnResult(sqlmock.NewResult(0, 1))
	res, err := svc.Exec(ctx, "DELETE FROM sessions WHERE key = $1", "k")
	if err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("Expected 1 affected row, got %d", n)
	}

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
	var one int
	if err := svc.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Errorf("QueryRow returned %d, %v", one, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
