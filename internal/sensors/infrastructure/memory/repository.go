package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
)

// SensorRepository is the in-memory sensor repository.
type SensorRepository struct {
	store *Store
	uow   *UnitOfWork
}

// NewSensorRepository constructs a repository. A nil unit of work yields
// a read-only repository; staged writes then fail.
func NewSensorRepository(store *Store, uow *UnitOfWork) *SensorRepository {
	return &SensorRepository{store: store, uow: uow}
}

// GetByID loads a sensor by id, nil when absent.
func (r *SensorRepository) GetByID(ctx context.Context, id uuid.UUID) (*sensors.Sensor, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if sensor, ok := r.store.sensors[id]; ok {
		copied := sensor
		return &copied, nil
	}
	return nil, nil
}

// GetByName loads a sensor by its unique name, nil when absent.
func (r *SensorRepository) GetByName(ctx context.Context, name string) (*sensors.Sensor, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, sensor := range r.store.sensors {
		if sensor.Name == name {
			copied := sensor
			return &copied, nil
		}
	}
	return nil, nil
}

// GetAll lists every sensor, unordered.
func (r *SensorRepository) GetAll(ctx context.Context) ([]*sensors.Sensor, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	list := make([]*sensors.Sensor, 0, len(r.store.sensors))
	for _, sensor := range r.store.sensors {
		copied := sensor
		list = append(list, &copied)
	}
	return list, nil
}

// Add stages an insert; the unique-name check runs at commit, like the
// SQL backends' unique index.
func (r *SensorRepository) Add(ctx context.Context, sensor *sensors.Sensor) error {
	_ = ctx
	if r.uow == nil {
		return fmt.Errorf("sensor repo: nil unit of work")
	}
	if sensor == nil {
		return fmt.Errorf("sensor repo: nil sensor")
	}
	if err := sensor.Validate(); err != nil {
		return err
	}
	copied := *sensor
	r.uow.enqueue(func() error {
		for _, existing := range r.store.sensors {
			if existing.Name == copied.Name && existing.ID != copied.ID {
				return fmt.Errorf("%w: %q", sensors.ErrDuplicateName, copied.Name)
			}
		}
		r.store.sensors[copied.ID] = copied
		return nil
	})
	return nil
}

// Update stages a replace. Present for contract completeness; no
// service currently calls it.
func (r *SensorRepository) Update(ctx context.Context, sensor *sensors.Sensor) error {
	return r.Add(ctx, sensor)
}

// Delete stages a delete with cascade to the sensor's records.
func (r *SensorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	if r.uow == nil {
		return fmt.Errorf("sensor repo: nil unit of work")
	}
	r.uow.enqueue(func() error {
		delete(r.store.sensors, id)
		for recordID, record := range r.store.records {
			if record.SensorID == id {
				delete(r.store.records, recordID)
			}
		}
		return nil
	})
	return nil
}

// SensorRecordRepository is the in-memory record repository.
type SensorRecordRepository struct {
	store *Store
	uow   *UnitOfWork
}

// NewSensorRecordRepository constructs a repository. A nil unit of work yields
// a read-only repository; staged writes then fail.
func NewSensorRecordRepository(store *Store, uow *UnitOfWork) *SensorRecordRepository {
	return &SensorRecordRepository{store: store, uow: uow}
}

// GetByID loads a record by id with its sensor name resolved.
func (r *SensorRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*sensors.SensorRecord, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.records[id]
	if !ok {
		return nil, nil
	}
	copied := record
	if sensor, ok := r.store.sensors[record.SensorID]; ok {
		copied.SensorName = sensor.Name
	}
	return &copied, nil
}

// GetAll lists every record.
func (r *SensorRecordRepository) GetAll(ctx context.Context) ([]*sensors.SensorRecord, error) {
	return r.GetFiltered(ctx, sensors.RecordFilter{})
}

// GetFiltered lists records matching every set predicate.
func (r *SensorRecordRepository) GetFiltered(ctx context.Context, filter sensors.RecordFilter) ([]*sensors.SensorRecord, error) {
	_ = ctx
	filter = filter.Normalize()
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var list []*sensors.SensorRecord
	for _, record := range r.store.records {
		copied := record
		if sensor, ok := r.store.sensors[record.SensorID]; ok {
			copied.SensorName = sensor.Name
		}
		if filter.Matches(&copied) {
			list = append(list, &copied)
		}
	}
	return list, nil
}

// Add stages an insert; the owning-sensor check runs at commit, like
// the SQL backends' foreign key.
func (r *SensorRecordRepository) Add(ctx context.Context, record *sensors.SensorRecord) error {
	_ = ctx
	if r.uow == nil {
		return fmt.Errorf("record repo: nil unit of work")
	}
	if record == nil {
		return fmt.Errorf("record repo: nil record")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	copied := *record
	copied.Timestamp = copied.Timestamp.UTC()
	r.uow.enqueue(func() error {
		if _, ok := r.store.sensors[copied.SensorID]; !ok {
			return fmt.Errorf("record repo: sensor %s does not exist", copied.SensorID)
		}
		r.store.records[copied.ID] = copied
		return nil
	})
	return nil
}

// Update stages a replace. Present for contract completeness; no
// service currently calls it.
func (r *SensorRecordRepository) Update(ctx context.Context, record *sensors.SensorRecord) error {
	return r.Add(ctx, record)
}

// Delete stages a delete; absent ids are a no-op.
func (r *SensorRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_ = ctx
	if r.uow == nil {
		return fmt.Errorf("record repo: nil unit of work")
	}
	r.uow.enqueue(func() error {
		delete(r.store.records, id)
		return nil
	})
	return nil
}
