package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
	"windturbine-api/internal/sensors/infrastructure/memory"
)

type fixture struct {
	sensors *SensorService
	records *RecordService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	sensorRepo := memory.NewSensorRepository(store, nil)
	recordRepo := memory.NewSensorRecordRepository(store, nil)

	factory, err := sensors.NewSensorFactory(sensorRepo)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	sensorService, err := NewSensorService(factory, sensorRepo, store, nil)
	if err != nil {
		t.Fatalf("sensor service: %v", err)
	}
	recordService, err := NewRecordService(recordRepo, store, nil)
	if err != nil {
		t.Fatalf("record service: %v", err)
	}
	return fixture{sensors: sensorService, records: recordService}
}

func mustCreateSensor(t *testing.T, f fixture, name string) *sensors.Sensor {
	t.Helper()
	res := f.sensors.Create(context.Background(), &sensors.Sensor{ID: uuid.New(), Name: name})
	if !res.IsSuccess() {
		t.Fatalf("create sensor %q: %q", name, res.Err())
	}
	return res.Value()
}

func TestSensorCreateReturnsInputName(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")
	if sensor.Name != "T1" {
		t.Fatalf("name = %q, want T1", sensor.Name)
	}

	loaded, err := f.sensors.GetByName(context.Background(), "T1")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if loaded == nil || loaded.ID != sensor.ID {
		t.Fatal("created sensor not readable back")
	}
}

func TestSensorCreateDuplicateNameFails(t *testing.T) {
	f := newFixture(t)
	mustCreateSensor(t, f, "T1")

	res := f.sensors.Create(context.Background(), &sensors.Sensor{ID: uuid.New(), Name: "T1"})
	if !res.IsFailure() {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Err(), "already exists") {
		t.Fatalf("err = %q", res.Err())
	}

	all, err := f.sensors.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("sensor count = %d, want 1", len(all))
	}
}

func TestSensorDeletePresentThenAbsent(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")

	status := f.sensors.Delete(context.Background(), sensor.ID)
	if !status.IsSuccess() {
		t.Fatalf("delete: %q", status.Err())
	}

	loaded, err := f.sensors.GetByID(context.Background(), sensor.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded != nil {
		t.Fatal("sensor still present after delete")
	}

	again := f.sensors.Delete(context.Background(), sensor.ID)
	if !again.IsNotFound() {
		t.Fatal("second delete must be not-found")
	}
}

func TestSensorDeleteCascadesToRecords(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")

	record := &sensors.SensorRecord{
		ID:        uuid.New(),
		SensorID:  sensor.ID,
		Timestamp: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Reading:   sensors.Celsius(5),
	}
	if res := f.records.Create(context.Background(), record); !res.IsSuccess() {
		t.Fatalf("create record: %q", res.Err())
	}

	if status := f.sensors.Delete(context.Background(), sensor.ID); !status.IsSuccess() {
		t.Fatalf("delete sensor: %q", status.Err())
	}

	left, err := f.records.GetFiltered(context.Background(), sensors.RecordFilter{})
	if err != nil {
		t.Fatalf("get filtered: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("records left after cascade = %d, want 0", len(left))
	}
}

func TestSensorNameReusableAfterDelete(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")
	if status := f.sensors.Delete(context.Background(), sensor.ID); !status.IsSuccess() {
		t.Fatalf("delete: %q", status.Err())
	}
	mustCreateSensor(t, f, "T1")
}
