package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"windturbine-api/internal/observability/metrics"
	"windturbine-api/internal/result"
	sensors "windturbine-api/internal/sensors/domain"
)

// RecordService handles sensor-record lifecycle operations.
type RecordService struct {
	records sensors.SensorRecordRepository
	store   sensors.Store
	logger  *log.Logger
}

// NewRecordService constructs a record service.
func NewRecordService(records sensors.SensorRecordRepository, store sensors.Store, logger *log.Logger) (*RecordService, error) {
	if records == nil {
		return nil, errors.New("record service: nil record repository")
	}
	if store == nil {
		return nil, errors.New("record service: nil store")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RecordService{records: records, store: store, logger: logger}, nil
}

// GetByID loads a record by id, nil when absent.
func (s *RecordService) GetByID(ctx context.Context, id uuid.UUID) (*sensors.SensorRecord, error) {
	return s.records.GetByID(ctx, id)
}

// GetFiltered lists records matching the filter; an empty filter
// returns everything.
func (s *RecordService) GetFiltered(ctx context.Context, filter sensors.RecordFilter) ([]*sensors.SensorRecord, error) {
	start := time.Now()
	records, err := s.records.GetFiltered(ctx, filter)
	if err != nil {
		metrics.ObserveRecordQuery(time.Since(start), metrics.ResultError)
		return nil, err
	}
	metrics.ObserveRecordQuery(time.Since(start), metrics.ResultSuccess)
	return records, nil
}

// Create persists a record. Callers resolve the owning sensor and
// normalize the timestamp to UTC before calling; this method only
// persists and commits. Persistence failure is logged and reported as
// a Failure result, the same contract sensor creation uses.
func (s *RecordService) Create(ctx context.Context, record *sensors.SensorRecord) result.Result[*sensors.SensorRecord] {
	if record == nil {
		return result.Failure[*sensors.SensorRecord]("Sensor record is required.")
	}

	ws, err := s.store.NewWriteSet()
	if err != nil {
		metrics.IncRecordCreate(metrics.ResultError)
		s.logger.Printf("record create: write set error: %v", err)
		return result.Failure[*sensors.SensorRecord](fmt.Sprintf("An error occurred while saving the sensor record: %v", err))
	}
	if err := ws.Records.Add(ctx, record); err != nil {
		metrics.IncRecordCreate(metrics.ResultError)
		s.logger.Printf("record create: %v", err)
		return result.Failure[*sensors.SensorRecord](fmt.Sprintf("An error occurred while saving the sensor record: %v", err))
	}
	if err := ws.SaveChanges(ctx); err != nil {
		metrics.IncRecordCreate(metrics.ResultError)
		s.logger.Printf("record create: save error: %v", err)
		return result.Failure[*sensors.SensorRecord](fmt.Sprintf("An error occurred while saving the sensor record: %v", err))
	}

	metrics.IncRecordCreate(metrics.ResultSuccess)
	return result.Success(record)
}

// Delete removes a record by id.
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) result.Status {
	existing, err := s.records.GetByID(ctx, id)
	if err != nil {
		metrics.IncRecordDelete(metrics.ResultError)
		s.logger.Printf("record delete %s: lookup error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor record: %v", err))
	}
	if existing == nil {
		return result.StatusNotFound()
	}

	ws, err := s.store.NewWriteSet()
	if err != nil {
		metrics.IncRecordDelete(metrics.ResultError)
		s.logger.Printf("record delete %s: write set error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor record: %v", err))
	}
	if err := ws.Records.Delete(ctx, existing.ID); err != nil {
		metrics.IncRecordDelete(metrics.ResultError)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor record: %v", err))
	}
	if err := ws.SaveChanges(ctx); err != nil {
		metrics.IncRecordDelete(metrics.ResultError)
		s.logger.Printf("record delete %s: save error: %v", id, err)
		return result.Fail(fmt.Sprintf("An error occurred while deleting the sensor record: %v", err))
	}

	metrics.IncRecordDelete(metrics.ResultSuccess)
	return result.OK()
}
