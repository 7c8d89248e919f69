// Package sqlite implements the sensor persistence contracts over an
// embedded SQLite database. It is the zero-setup backend: the schema is
// created at open, so demo runs need no provisioning.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	sensors "windturbine-api/internal/sensors/domain"
)

const (
	sensorsTable = "sensors"
	recordsTable = "sensor_records"

	// Fixed-width storage layout for timestamps; SQLite has no native
	// timestamp type and lexical order must match time order, so the
	// fractional part keeps its trailing zeros.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// Open opens (or creates) the database at path and bootstraps the
// schema. Foreign keys are enabled so sensor deletes cascade.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: database path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store opens operation-scoped write sets over an open database.
type Store struct {
	db *sql.DB
}

// NewStore constructs a store.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite: nil db")
	}
	return &Store{db: db}, nil
}

// NewWriteSet opens a unit of work with repositories bound to it.
func (s *Store) NewWriteSet() (*sensors.WriteSet, error) {
	uow, err := NewUnitOfWork(s.db)
	if err != nil {
		return nil, err
	}
	return &sensors.WriteSet{
		Sensors:    NewSensorRepository(s.db, uow),
		Records:    NewSensorRecordRepository(s.db, uow),
		UnitOfWork: uow,
	}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
)`, sensorsTable),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_name ON %[1]s (name)`, sensorsTable),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	sensor_id TEXT NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
	timestamp TEXT NOT NULL,
	reading_value REAL NOT NULL,
	reading_unit TEXT NOT NULL
)`, recordsTable, sensorsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_sensor_id ON %[1]s (sensor_id)`, recordsTable),
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("sqlite: ensure schema: %w", err)
		}
	}
	return nil
}
