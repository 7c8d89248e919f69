package sensors

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// MaxNameLength bounds sensor names, mirrored by the storage schema.
const MaxNameLength = 100

// ErrDuplicateName is reported when a write violates the unique index
// on sensor names. The factory pre-check catches most duplicates; this
// covers the race window between check and commit.
var ErrDuplicateName = errors.New("sensor name already exists")

// Sensor represents a temperature sensor mounted on a wind turbine.
// The name is globally unique; the storage layer enforces it with a
// unique index, the factory pre-checks it for early rejection.
type Sensor struct {
	ID   uuid.UUID
	Name string
}

// Validate checks sensor invariants.
func (s Sensor) Validate() error {
	if s.ID == uuid.Nil {
		return errors.New("sensor: empty id")
	}
	if s.Name == "" {
		return errors.New("sensor: empty name")
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("sensor: name exceeds 100 characters")
	}
	return nil
}

// SensorRepository manages sensor persistence. Reads return nil without
// error when nothing matches; Delete on an absent id is a no-op, absence
// is surfaced by the service layer, not here.
type SensorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Sensor, error)
	GetByName(ctx context.Context, name string) (*Sensor, error)
	GetAll(ctx context.Context) ([]*Sensor, error)
	Add(ctx context.Context, sensor *Sensor) error
	Update(ctx context.Context, sensor *Sensor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitOfWork is the commit boundary for repository mutations. Add,
// Update and Delete stage work; SaveChanges applies the stage in a
// single transaction. Concrete implementations also expose explicit
// transaction control, which no service currently uses.
type UnitOfWork interface {
	SaveChanges(ctx context.Context) error
}

// WriteSet is an operation-scoped pair of repositories staged on one
// unit of work. Each mutating operation opens its own write set, so a
// failed commit never discards or carries another operation's writes.
type WriteSet struct {
	Sensors SensorRepository
	Records SensorRecordRepository
	UnitOfWork
}

// Store opens write sets over one persistence backend.
type Store interface {
	NewWriteSet() (*WriteSet, error)
}
