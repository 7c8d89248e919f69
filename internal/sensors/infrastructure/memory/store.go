// Package memory is an in-memory implementation of the sensor
// persistence contracts for tests and demo runs. It mirrors the SQL
// backends' behavior: unique sensor names, FK checks on record inserts
// and cascade delete from sensor to records, all applied at the unit of
// work's commit boundary.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
)

// Store holds the shared tables.
type Store struct {
	mu      sync.RWMutex
	sensors map[uuid.UUID]sensors.Sensor
	records map[uuid.UUID]sensors.SensorRecord
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		sensors: make(map[uuid.UUID]sensors.Sensor),
		records: make(map[uuid.UUID]sensors.SensorRecord),
	}
}

// NewWriteSet opens an operation-scoped unit of work with repositories
// bound to it.
func (s *Store) NewWriteSet() (*sensors.WriteSet, error) {
	uow, err := NewUnitOfWork(s)
	if err != nil {
		return nil, err
	}
	return &sensors.WriteSet{
		Sensors:    NewSensorRepository(s, uow),
		Records:    NewSensorRecordRepository(s, uow),
		UnitOfWork: uow,
	}, nil
}

// UnitOfWork stages mutations against the store and applies them on
// SaveChanges. All staged operations run under one write lock, so a
// save is atomic with respect to readers.
type UnitOfWork struct {
	store *Store

	mu      sync.Mutex
	pending []func() error
}

// NewUnitOfWork constructs a unit of work over a store.
func NewUnitOfWork(store *Store) (*UnitOfWork, error) {
	if store == nil {
		return nil, fmt.Errorf("memory: nil store")
	}
	return &UnitOfWork{store: store}, nil
}

func (u *UnitOfWork) enqueue(op func() error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = append(u.pending, op)
}

// SaveChanges applies all staged mutations. The first failing
// operation aborts the save; the stage is always cleared.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	_ = ctx
	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, op := range pending {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}
