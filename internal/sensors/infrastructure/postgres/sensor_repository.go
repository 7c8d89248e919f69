package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	sensors "windturbine-api/internal/sensors/domain"
)

const defaultSensorsTable = "sensors"

// SensorRepository is a Postgres implementation for sensors. Reads go
// straight to the database; writes are staged on the unit of work and
// applied at SaveChanges.
type SensorRepository struct {
	db    DBTX
	uow   *UnitOfWork
	table string
}

// NewSensorRepository constructs a repository. A nil unit of work yields
// a read-only repository; staged writes then fail.
func NewSensorRepository(db DBTX, uow *UnitOfWork, opts ...SensorOption) *SensorRepository {
	repo := &SensorRepository{db: db, uow: uow, table: defaultSensorsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// SensorOption configures the repository.
type SensorOption func(*SensorRepository)

// WithSensorsTable overrides the default table name.
func WithSensorsTable(table string) SensorOption {
	return func(repo *SensorRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// GetByID loads a sensor by id, nil when absent.
func (r *SensorRepository) GetByID(ctx context.Context, id uuid.UUID) (*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT id, name
FROM %s
WHERE id = $1
LIMIT 1`, r.table)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id.String()))
}

// GetByName loads a sensor by its unique name, nil when absent.
func (r *SensorRepository) GetByName(ctx context.Context, name string) (*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	if name == "" {
		return nil, errors.New("sensor repo: empty name")
	}
	query := fmt.Sprintf(`
SELECT id, name
FROM %s
WHERE name = $1
LIMIT 1`, r.table)
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// GetAll lists every sensor, unordered.
func (r *SensorRepository) GetAll(ctx context.Context) ([]*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	query := fmt.Sprintf(`SELECT id, name FROM %s`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*sensors.Sensor
	for rows.Next() {
		var (
			rawID  string
			sensor sensors.Sensor
		)
		if err := rows.Scan(&rawID, &sensor.Name); err != nil {
			return nil, err
		}
		if sensor.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("sensor repo: bad id %q: %w", rawID, err)
		}
		list = append(list, &sensor)
	}
	return list, rows.Err()
}

// Add stages an insert for the next SaveChanges.
func (r *SensorRepository) Add(ctx context.Context, sensor *sensors.Sensor) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("sensor repo: nil unit of work")
	}
	if sensor == nil {
		return errors.New("sensor repo: nil sensor")
	}
	if err := sensor.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2)`, r.table)
	id, name := sensor.ID.String(), sensor.Name
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, id, name)
		if err != nil && isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", sensors.ErrDuplicateName, err)
		}
		return err
	})
	return nil
}

// isUniqueViolation detects Postgres error 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Update stages a name update. Present for contract completeness; no
// service currently calls it.
func (r *SensorRepository) Update(ctx context.Context, sensor *sensors.Sensor) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("sensor repo: nil unit of work")
	}
	if sensor == nil {
		return errors.New("sensor repo: nil sensor")
	}
	if err := sensor.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1`, r.table)
	id, name := sensor.ID.String(), sensor.Name
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, id, name)
		return err
	})
	return nil
}

// Delete stages a delete. Absent rows are a no-op; the cascade on the
// records table removes the sensor's readings.
func (r *SensorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("sensor repo: nil unit of work")
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	raw := id.String()
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, raw)
		return err
	})
	return nil
}

func (r *SensorRepository) scanOne(row *sql.Row) (*sensors.Sensor, error) {
	var (
		rawID  string
		sensor sensors.Sensor
	)
	if err := row.Scan(&rawID, &sensor.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("sensor repo: bad id %q: %w", rawID, err)
	}
	sensor.ID = id
	return &sensor, nil
}
