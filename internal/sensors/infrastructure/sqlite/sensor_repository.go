package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
)

// SensorRepository is a SQLite implementation for sensors.
type SensorRepository struct {
	db  *sql.DB
	uow *UnitOfWork
}

// NewSensorRepository constructs a repository. A nil unit of work yields
// a read-only repository; staged writes then fail.
func NewSensorRepository(db *sql.DB, uow *UnitOfWork) *SensorRepository {
	return &SensorRepository{db: db, uow: uow}
}

// GetByID loads a sensor by id, nil when absent.
func (r *SensorRepository) GetByID(ctx context.Context, id uuid.UUID) (*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM `+sensorsTable+` WHERE id = $1 LIMIT 1`, id.String())
	return scanSensor(row)
}

// GetByName loads a sensor by its unique name, nil when absent.
func (r *SensorRepository) GetByName(ctx context.Context, name string) (*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	if name == "" {
		return nil, errors.New("sensor repo: empty name")
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM `+sensorsTable+` WHERE name = $1 LIMIT 1`, name)
	return scanSensor(row)
}

// GetAll lists every sensor, unordered.
func (r *SensorRepository) GetAll(ctx context.Context) ([]*sensors.Sensor, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sensor repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM `+sensorsTable)
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
	id, name := sensor.ID.String(), sensor.Name
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO `+sensorsTable+` (id, name) VALUES ($1, $2)`, id, name)
		if err != nil && isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", sensors.ErrDuplicateName, err)
		}
		return err
	})
	return nil
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
	id, name := sensor.ID.String(), sensor.Name
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE `+sensorsTable+` SET name = $2 WHERE id = $1`, id, name)
		return err
	})
	return nil
}

// Delete stages a delete; the FK cascade removes the sensor's records.
func (r *SensorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("sensor repo: nil unit of work")
	}
	raw := id.String()
	r.uow.enqueue(func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM `+sensorsTable+` WHERE id = $1`, raw)
		return err
	})
	return nil
}

func scanSensor(row *sql.Row) (*sensors.Sensor, error) {
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

// isUniqueViolation matches the modernc driver's constraint message for
// the unique name index.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
