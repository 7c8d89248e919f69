// Package application orchestrates domain validation, repository calls
// and unit-of-work commits for the sensor API. Expected failures never
// escape as errors: every outcome travels as a Result. Reads go through
// shared read-only repositories; every mutation opens its own write set
// so concurrent operations never share a commit stage.
package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"windturbine-api/internal/observability/metrics"
	"windturbine-api/internal/result"
	sensors "windturbine-api/internal/sensors/domain"
)

// SensorService handles sensor lifecycle operations.
type SensorService struct {
	factory *sensors.SensorFactory
	sensors sensors.SensorRepository
	store   sensors.Store
	logger  *log.Logger
}

// NewSensorService constructs a sensor service.
func NewSensorService(factory *sensors.SensorFactory, repo sensors.SensorRepository, store sensors.Store, logger *log.Logger) (*SensorService, error) {
	if factory == nil {
		return nil, errors.New("sensor service: nil factory")
	}
	if repo == nil {
		return nil, errors.New("sensor service: nil repository")
	}
	if store == nil {
		return nil, errors.New("sensor service: nil store")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SensorService{factory: factory, sensors: repo, store: store, logger: logger}, nil
}

// GetByID loads a sensor by id, nil when absent.
func (s *SensorService) GetByID(ctx context.Context, id uuid.UUID) (*sensors.Sensor, error) {
	return s.sensors.GetByID(ctx, id)
}

// GetByName loads a sensor by name, nil when absent.
func (s *SensorService) GetByName(ctx context.Context, name string) (*sensors.Sensor, error) {
	return s.sensors.GetByName(ctx, name)
}

// GetAll lists every sensor, unordered.
func (s *SensorService) GetAll(ctx context.Context) ([]*sensors.Sensor, error) {
	return s.sensors.GetAll(ctx)
}

// Create validates the name through the factory and persists the
// caller's sensor. The factory validates sensor.Name only; the sensor
// passed in, id included, is what gets stored, so callers populate the
// id before calling.
func (s *SensorService) Create(ctx context.Context, sensor *sensors.Sensor) result.Result[*sensors.Sensor] {
	if sensor == nil {
		return result.Failure[*sensors.Sensor]("Sensor is required.")
	}

	creation := s.factory.Create(ctx, sensor.Name)
	if !creation.IsSuccess() {
		metrics.IncSensorCreate(metrics.ResultError)
		if creation.Err() == "" {
			return result.Failure[*sensors.Sensor]("Sensor name validation failed.")
		}
		return result.Failure[*sensors.Sensor](creation.Err())
	}

	ws, err := s.store.NewWriteSet()
	if err != nil {
		metrics.IncSensorCreate(metrics.ResultError)
		s.logger.Printf("sensor create: write set error: %v", err)
		return result.Failure[*sensors.Sensor](fmt.Sprintf("An error occurred while saving the sensor: %v", err))
	}
	if err := ws.Sensors.Add(ctx, sensor); err != nil {
		metrics.IncSensorCreate(metrics.ResultError)
		return result.Failure[*sensors.Sensor](fmt.Sprintf("An error occurred while saving the sensor: %v", err))
	}
	if err := ws.SaveChanges(ctx); err != nil {
		metrics.IncSensorCreate(metrics.ResultError)
		if errors.Is(err, sensors.ErrDuplicateName) {
			// Lost the race between factory check and commit; report
			// it the same way the pre-check would have.
			return result.Failure[*sensors.Sensor](fmt.Sprintf("Sensor with name '%s' already exists.", sensor.Name))
		}
		s.logger.Printf("sensor create: save error: %v", err)
		return result.Failure[*sensors.Sensor](fmt.Sprintf("An error occurred while saving the sensor: %v", err))
	}

	metrics.IncSensorCreate(metrics.ResultSuccess)
	return result.Success(sensor)
}

// Delete removes a sensor by id; its records go with it via the
// storage-level cascade.
func (s *SensorService) Delete(ctx context.Context, id uuid.UUID) result.Status {
	existing, err := s.sensors.GetByID(ctx, id)
	if err != nil {
		metrics.IncSensorDelete(metrics.ResultError)
		s.logger.Printf("sensor delete %s: lookup error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor: %v", err))
	}
	if existing == nil {
		return result.StatusNotFound()
	}

	ws, err := s.store.NewWriteSet()
	if err != nil {
		metrics.IncSensorDelete(metrics.ResultError)
		s.logger.Printf("sensor delete %s: write set error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor: %v", err))
	}
	if err := ws.Sensors.Delete(ctx, existing.ID); err != nil {
		metrics.IncSensorDelete(metrics.ResultError)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor: %v", err))
	}
	if err := ws.SaveChanges(ctx); err != nil {
		metrics.IncSensorDelete(metrics.ResultError)
		s.logger.Printf("sensor delete %s: save error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor: %v", err))
	}

	metrics.IncSensorDelete(metrics.ResultSuccess)
	return result.OK()
}
