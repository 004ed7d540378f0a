package record

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// PostgresStore is the Store backend for deployments that want row-level
// durability instead of the single-blob key. Insertion order is a serial
// sequence so that All preserves newest-first ordering even across duplicate
// timestamps.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store and ensures the schema exists.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attendance_records (
			row_id     UUID PRIMARY KEY,
			seq        BIGSERIAL,
			student_id TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			department TEXT NOT NULL DEFAULT '',
			gender     TEXT NOT NULL DEFAULT '',
			age        TEXT NOT NULL DEFAULT '',
			dob        TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			occurred_at TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_attendance_records_student ON attendance_records(student_id);
	`)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// Append inserts a new row; the serial sequence makes it the newest.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_records
			(row_id, student_id, name, department, gender, age, dob, email, occurred_at, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, uuid.NewString(), rec.ID, rec.Name, rec.Department, rec.Gender, rec.Age, rec.DOB, rec.Email, rec.Timestamp, rec.AttendanceStatus)
	return err
}

// Remove deletes the newest row carrying the record id; idempotent.
func (s *PostgresStore) Remove(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM attendance_records
		WHERE row_id = (
			SELECT row_id FROM attendance_records
			WHERE student_id = $1
			ORDER BY seq DESC
			LIMIT 1
		)
	`, id)
	return err
}

// All returns rows newest first.
func (s *PostgresStore) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, name, department, gender, age, dob, email, occurred_at, status
		FROM attendance_records
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Department, &rec.Gender, &rec.Age, &rec.DOB, &rec.Email, &rec.Timestamp, &rec.AttendanceStatus); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
