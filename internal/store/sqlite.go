package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/fundsim/internal/domain"
	"github.com/rgehrsitz/fundsim/internal/store/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// SQLiteRecordSink persists finalized records in SQLite.
type SQLiteRecordSink struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// OpenSQLiteRecordSink opens the database at path and applies embedded migrations.
func OpenSQLiteRecordSink(path string) (*SQLiteRecordSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRecordSink{db: db}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteRecordSink) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts one record. Records are immutable once stored.
func (s *SQLiteRecordSink) Put(ctx context.Context, record domain.CompleteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("record id is required")
	}

	answers, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	completedAt := record.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO complete_records (
		   id, eligible, reason, income_tier, answers_json, result_json, completed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Result.Eligible,
		string(record.Result.Reason),
		string(record.IncomeTier),
		string(answers),
		string(result),
		toMillis(completedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert complete record: %w", err)
	}
	return nil
}

// Get returns one record by ID.
func (s *SQLiteRecordSink) Get(ctx context.Context, id string) (domain.CompleteRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.CompleteRecord{}, err
	}
	if s == nil || s.db == nil {
		return domain.CompleteRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, income_tier, answers_json, result_json, completed_at
		   FROM complete_records
		  WHERE id = ?`,
		strings.TrimSpace(id),
	)

	var (
		record      domain.CompleteRecord
		tier        string
		answers     string
		result      string
		completedAt int64
	)
	if err := row.Scan(&record.ID, &tier, &answers, &result, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CompleteRecord{}, ErrNotFound
		}
		return domain.CompleteRecord{}, fmt.Errorf("get complete record: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &record.Answers); err != nil {
		return domain.CompleteRecord{}, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(result), &record.Result); err != nil {
		return domain.CompleteRecord{}, fmt.Errorf("decode result: %w", err)
	}
	record.IncomeTier = domain.IncomeTier(tier)
	record.CompletedAt = fromMillis(completedAt)
	return record, nil
}

// CountByOutcome returns how many stored records are eligible and ineligible.
func (s *SQLiteRecordSink) CountByOutcome(ctx context.Context) (eligible, ineligible int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT eligible, COUNT(*) FROM complete_records GROUP BY eligible`)
	if err != nil {
		return 0, 0, fmt.Errorf("count complete records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var flag bool
		var n int
		if err := rows.Scan(&flag, &n); err != nil {
			return 0, 0, fmt.Errorf("count complete records: %w", err)
		}
		if flag {
			eligible = n
		} else {
			ineligible = n
		}
	}
	return eligible, ineligible, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
