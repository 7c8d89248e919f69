package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	sensors "windturbine-api/internal/sensors/domain"
)

func mustCreateRecord(t *testing.T, f fixture, sensorID uuid.UUID, ts time.Time, value float64) *sensors.SensorRecord {
	t.Helper()
	record := &sensors.SensorRecord{
		ID:        uuid.New(),
		SensorID:  sensorID,
		Timestamp: ts.UTC(),
		Reading:   sensors.Celsius(value),
	}
	res := f.records.Create(context.Background(), record)
	if !res.IsSuccess() {
		t.Fatalf("create record: %q", res.Err())
	}
	return res.Value()
}

func TestRecordRoundTrip(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	record := mustCreateRecord(t, f, sensor.ID, at, 21.5)

	loaded, err := f.records.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded == nil {
		t.Fatal("record not found after create")
	}
	if loaded.Reading.Value != 21.5 {
		t.Fatalf("reading value = %v, want 21.5", loaded.Reading.Value)
	}
	if loaded.Reading.Unit != sensors.UnitCelsius {
		t.Fatalf("reading unit = %q, want Celsius", loaded.Reading.Unit)
	}
	if !loaded.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v, want %v", loaded.Timestamp, at)
	}
	if loaded.SensorName != "T1" {
		t.Fatalf("sensor name = %q, want T1", loaded.SensorName)
	}
}

func TestRecordCreateRejectsUnknownSensor(t *testing.T) {
	f := newFixture(t)
	record := &sensors.SensorRecord{
		ID:        uuid.New(),
		SensorID:  uuid.New(),
		Timestamp: time.Now().UTC(),
		Reading:   sensors.Celsius(1),
	}
	res := f.records.Create(context.Background(), record)
	if !res.IsFailure() {
		t.Fatal("record pointing at a missing sensor must fail to commit")
	}
}

func TestRecordFiltering(t *testing.T) {
	f := newFixture(t)
	t1 := mustCreateSensor(t, f, "T1")
	t2 := mustCreateSensor(t, f, "T2")

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mustCreateRecord(t, f, t1.ID, base, 5.0)
	mustCreateRecord(t, f, t1.ID, base.Add(time.Hour), 7.5)
	mustCreateRecord(t, f, t2.ID, base.Add(2*time.Hour), 9.0)

	ctx := context.Background()

	all, err := f.records.GetFiltered(ctx, sensors.RecordFilter{})
	if err != nil {
		t.Fatalf("unfiltered: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered count = %d, want 3", len(all))
	}

	name := "T1"
	byName, err := f.records.GetFiltered(ctx, sensors.RecordFilter{SensorName: &name})
	if err != nil {
		t.Fatalf("by name: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("by name count = %d, want 2", len(byName))
	}

	above := 4.9
	aboveRes, err := f.records.GetFiltered(ctx, sensors.RecordFilter{SensorName: &name, AboveValue: &above})
	if err != nil {
		t.Fatalf("above: %v", err)
	}
	if len(aboveRes) != 2 {
		t.Fatalf("above 4.9 count = %d, want 2", len(aboveRes))
	}

	aboveExact := 5.0
	exactRes, err := f.records.GetFiltered(ctx, sensors.RecordFilter{SensorName: &name, AboveValue: &aboveExact})
	if err != nil {
		t.Fatalf("above exact: %v", err)
	}
	if len(exactRes) != 1 {
		t.Fatalf("above 5.0 count = %d, want 1 (bound is exclusive)", len(exactRes))
	}

	start, end := base, base.Add(time.Hour)
	window, err := f.records.GetFiltered(ctx, sensors.RecordFilter{StartDate: &start, EndDate: &end})
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("window count = %d, want 2 (bounds inclusive)", len(window))
	}
}

func TestRecordDelete(t *testing.T) {
	f := newFixture(t)
	sensor := mustCreateSensor(t, f, "T1")
	record := mustCreateRecord(t, f, sensor.ID, time.Now(), 5)

	if status := f.records.Delete(context.Background(), record.ID); !status.IsSuccess() {
		t.Fatalf("delete: %q", status.Err())
	}
	loaded, err := f.records.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded != nil {
		t.Fatal("record still present after delete")
	}
	if status := f.records.Delete(context.Background(), record.ID); !status.IsNotFound() {
		t.Fatal("second delete must be not-found")
	}
}
