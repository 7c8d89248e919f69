package sensors

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SensorRecord is a single timestamped reading belonging to one sensor.
// The relation is held as a foreign key plus a resolved SensorName on
// reads; there is no back-pointer from Sensor to its records.
type SensorRecord struct {
	ID        uuid.UUID
	SensorID  uuid.UUID
	Timestamp time.Time
	Reading   Reading

	// SensorName is resolved from the owning sensor on reads and is
	// not a persisted column of the record itself.
	SensorName string
}

// Validate checks record invariants. Timestamps must already be UTC;
// callers normalize before constructing the record.
func (r SensorRecord) Validate() error {
	if r.ID == uuid.Nil {
		return errors.New("sensor record: empty id")
	}
	if r.SensorID == uuid.Nil {
		return errors.New("sensor record: empty sensor id")
	}
	if r.Timestamp.IsZero() {
		return errors.New("sensor record: empty timestamp")
	}
	if err := r.Reading.Validate(); err != nil {
		return err
	}
	return nil
}

// RecordFilter narrows record queries. All set fields apply
// conjunctively. Time bounds are inclusive and normalized to UTC before
// comparison; value bounds are strictly exclusive.
type RecordFilter struct {
	SensorName *string
	StartDate  *time.Time
	EndDate    *time.Time
	AboveValue *float64
	BelowValue *float64
}

// Normalize returns a copy with time bounds converted to UTC.
func (f RecordFilter) Normalize() RecordFilter {
	if f.StartDate != nil {
		start := f.StartDate.UTC()
		f.StartDate = &start
	}
	if f.EndDate != nil {
		end := f.EndDate.UTC()
		f.EndDate = &end
	}
	return f
}

// Matches reports whether a record satisfies every set predicate.
// SQL backends translate the filter to WHERE clauses; the in-memory
// backend and tests use this directly.
func (f RecordFilter) Matches(record *SensorRecord) bool {
	if record == nil {
		return false
	}
	if f.SensorName != nil && record.SensorName != *f.SensorName {
		return false
	}
	if f.StartDate != nil && record.Timestamp.Before(f.StartDate.UTC()) {
		return false
	}
	if f.EndDate != nil && record.Timestamp.After(f.EndDate.UTC()) {
		return false
	}
	if f.AboveValue != nil && record.Reading.Value <= *f.AboveValue {
		return false
	}
	if f.BelowValue != nil && record.Reading.Value >= *f.BelowValue {
		return false
	}
	return true
}

// SensorRecordRepository manages record persistence. Reads resolve the
// owning sensor name. Delete on an absent id is a no-op.
type SensorRecordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SensorRecord, error)
	GetAll(ctx context.Context) ([]*SensorRecord, error)
	GetFiltered(ctx context.Context, filter RecordFilter) ([]*SensorRecord, error)
	Add(ctx context.Context, record *SensorRecord) error
	Update(ctx context.Context, record *SensorRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
