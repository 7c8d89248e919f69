package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	sensors "windturbine-api/internal/sensors/domain"
)

// Open opens a Postgres pool for the given dsn and verifies
// connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: dsn is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// Store opens operation-scoped write sets over an open pool.
type Store struct {
	db *sql.DB
}

// NewStore constructs a store.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres: nil db")
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

// EnsureSchema creates the default sensor tables when absent.
// Deployments that manage migrations externally can skip this.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id   UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`, defaultSensorsTable),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id            UUID PRIMARY KEY,
	sensor_id     UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
	timestamp     TIMESTAMPTZ NOT NULL,
	reading_value DOUBLE PRECISION NOT NULL,
	reading_unit  TEXT NOT NULL
)`, defaultRecordsTable, defaultSensorsTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_sensor_id ON %[1]s (sensor_id)`, defaultRecordsTable),
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}
