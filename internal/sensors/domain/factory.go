package sensors

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"windturbine-api/internal/result"
)

// SensorFactory constructs sensors and enforces the name-uniqueness
// invariant at creation time. The lookup here is a best-effort early
// rejection: under concurrent writers the unique index on the name
// column is the authoritative enforcement point.
type SensorFactory struct {
	sensors SensorRepository
}

// NewSensorFactory constructs a factory.
func NewSensorFactory(sensors SensorRepository) (*SensorFactory, error) {
	if sensors == nil {
		return nil, fmt.Errorf("sensor factory: nil repository")
	}
	return &SensorFactory{sensors: sensors}, nil
}

// Create validates the name and returns a new sensor with a fresh id.
func (f *SensorFactory) Create(ctx context.Context, name string) result.Result[*Sensor] {
	if name == "" {
		return result.Failure[*Sensor]("Sensor name is required.")
	}
	if len(name) > MaxNameLength {
		return result.Failure[*Sensor](fmt.Sprintf("Sensor name exceeds %d characters.", MaxNameLength))
	}

	existing, err := f.sensors.GetByName(ctx, name)
	if err != nil {
		return result.Failure[*Sensor](fmt.Sprintf("An error occurred while validating the sensor name: %v", err))
	}
	if existing != nil {
		return result.Failure[*Sensor](fmt.Sprintf("Sensor with name '%s' already exists.", name))
	}

	return result.Success(&Sensor{ID: uuid.New(), Name: name})
}
