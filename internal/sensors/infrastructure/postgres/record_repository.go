package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
)

const defaultRecordsTable = "sensor_records"

// SensorRecordRepository is a Postgres implementation for sensor
// records. Reads join the owning sensor to resolve its name; writes are
// staged on the unit of work.
type SensorRecordRepository struct {
	db           DBTX
	uow          *UnitOfWork
	table        string
	sensorsTable string
}

// NewSensorRecordRepository constructs a repository. A nil unit of work yields
// a read-only repository; staged writes then fail.
func NewSensorRecordRepository(db DBTX, uow *UnitOfWork, opts ...RecordOption) *SensorRecordRepository {
	repo := &SensorRecordRepository{
		db:           db,
		uow:          uow,
		table:        defaultRecordsTable,
		sensorsTable: defaultSensorsTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// RecordOption configures the repository.
type RecordOption func(*SensorRecordRepository)

// WithRecordsTable overrides the default records table name.
func WithRecordsTable(table string) RecordOption {
	return func(repo *SensorRecordRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// WithJoinedSensorsTable overrides the sensors table used in joins.
func WithJoinedSensorsTable(table string) RecordOption {
	return func(repo *SensorRecordRepository) {
		if table != "" {
			repo.sensorsTable = table
		}
	}
}

// GetByID loads a record by id, nil when absent.
func (r *SensorRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*sensors.SensorRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT r.id, r.sensor_id, r.timestamp, r.reading_value, r.reading_unit, s.name
FROM %s r
JOIN %s s ON s.id = r.sensor_id
WHERE r.id = $1
LIMIT 1`, r.table, r.sensorsTable)

	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	record, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return record, rows.Err()
}

// GetAll lists every record with its sensor name resolved.
func (r *SensorRecordRepository) GetAll(ctx context.Context) ([]*sensors.SensorRecord, error) {
	return r.GetFiltered(ctx, sensors.RecordFilter{})
}

// GetFiltered lists records matching every set predicate. Time bounds
// are inclusive and normalized to UTC; value bounds are strict.
func (r *SensorRecordRepository) GetFiltered(ctx context.Context, filter sensors.RecordFilter) ([]*sensors.SensorRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("record repo: nil db")
	}
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.SensorName != nil {
		conds = append(conds, "s.name = "+arg(*filter.SensorName))
	}
	if filter.StartDate != nil {
		conds = append(conds, "r.timestamp >= "+arg(filter.StartDate.UTC()))
	}
	if filter.EndDate != nil {
		conds = append(conds, "r.timestamp <= "+arg(filter.EndDate.UTC()))
	}
	if filter.AboveValue != nil {
		conds = append(conds, "r.reading_value > "+arg(*filter.AboveValue))
	}
	if filter.BelowValue != nil {
		conds = append(conds, "r.reading_value < "+arg(*filter.BelowValue))
	}

	query := fmt.Sprintf(`
SELECT r.id, r.sensor_id, r.timestamp, r.reading_value, r.reading_unit, s.name
FROM %s r
JOIN %s s ON s.id = r.sensor_id`, r.table, r.sensorsTable)
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*sensors.SensorRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, record)
	}
	return list, rows.Err()
}

// Add stages an insert for the next SaveChanges.
func (r *SensorRecordRepository) Add(ctx context.Context, record *sensors.SensorRecord) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("record repo: nil unit of work")
	}
	if record == nil {
		return errors.New("record repo: nil record")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
INSERT INTO %s (id, sensor_id, timestamp, reading_value, reading_unit)
VALUES ($1, $2, $3, $4, $5)`, r.table)
	id, sensorID := record.ID.String(), record.SensorID.String()
	ts := record.Timestamp.UTC()
	value, unit := record.Reading.Value, string(record.Reading.Unit)
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, id, sensorID, ts, value, unit)
		return err
	})
	return nil
}

// Update stages a full-row update. Present for contract completeness;
// no service currently calls it.
func (r *SensorRecordRepository) Update(ctx context.Context, record *sensors.SensorRecord) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("record repo: nil unit of work")
	}
	if record == nil {
		return errors.New("record repo: nil record")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
UPDATE %s
SET sensor_id = $2, timestamp = $3, reading_value = $4, reading_unit = $5
WHERE id = $1`, r.table)
	id, sensorID := record.ID.String(), record.SensorID.String()
	ts := record.Timestamp.UTC()
	value, unit := record.Reading.Value, string(record.Reading.Unit)
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, id, sensorID, ts, value, unit)
		return err
	})
	return nil
}

// Delete stages a delete; absent rows are a no-op.
func (r *SensorRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	if r == nil || r.uow == nil {
		return errors.New("record repo: nil unit of work")
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	raw := id.String()
	r.uow.enqueue(func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, query, raw)
		return err
	})
	return nil
}

func scanRecord(rows *sql.Rows) (*sensors.SensorRecord, error) {
	var (
		rawID       string
		rawSensorID string
		ts          time.Time
		value       float64
		rawUnit     string
		sensorName  string
	)
	if err := rows.Scan(&rawID, &rawSensorID, &ts, &value, &rawUnit, &sensorName); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("record repo: bad id %q: %w", rawID, err)
	}
	sensorID, err := uuid.Parse(rawSensorID)
	if err != nil {
		return nil, fmt.Errorf("record repo: bad sensor id %q: %w", rawSensorID, err)
	}
	unit, err := sensors.ParseUnit(rawUnit)
	if err != nil {
		return nil, err
	}
	return &sensors.SensorRecord{
		ID:         id,
		SensorID:   sensorID,
		Timestamp:  ts.UTC(),
		Reading:    sensors.NewReading(value, unit),
		SensorName: sensorName,
	}, nil
}
