package sensors

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func strPtr(s string) *string       { return &s }
func f64Ptr(f float64) *float64     { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func sampleRecord(name string, ts time.Time, value float64) *SensorRecord {
	return &SensorRecord{
		ID:         uuid.New(),
		SensorID:   uuid.New(),
		Timestamp:  ts.UTC(),
		Reading:    Celsius(value),
		SensorName: name,
	}
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	record := sampleRecord("T1", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 5)
	if !(RecordFilter{}).Matches(record) {
		t.Fatal("empty filter must match")
	}
}

func TestFilterTimeBoundsInclusive(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	record := sampleRecord("T1", at, 5)

	onStart := RecordFilter{StartDate: timePtr(at)}
	if !onStart.Matches(record) {
		t.Fatal("start bound must be inclusive")
	}
	onEnd := RecordFilter{EndDate: timePtr(at)}
	if !onEnd.Matches(record) {
		t.Fatal("end bound must be inclusive")
	}
	after := RecordFilter{StartDate: timePtr(at.Add(time.Minute))}
	if after.Matches(record) {
		t.Fatal("record before start must not match")
	}
}

func TestFilterTimeBoundsNormalizedToUTC(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	record := sampleRecord("T1", at, 5)

	zone := time.FixedZone("UTC+2", 2*60*60)
	sameInstant := time.Date(2024, 1, 1, 12, 0, 0, 0, zone)
	filter := RecordFilter{StartDate: timePtr(sameInstant), EndDate: timePtr(sameInstant)}.Normalize()
	if !filter.Matches(record) {
		t.Fatal("equal instants in different zones must match")
	}
}

func TestFilterValueBoundsExclusive(t *testing.T) {
	record := sampleRecord("T1", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), 5.0)

	if (RecordFilter{AboveValue: f64Ptr(5.0)}).Matches(record) {
		t.Fatal("aboveValue is strict: 5.0 > 5.0 is false")
	}
	if !(RecordFilter{AboveValue: f64Ptr(4.9)}).Matches(record) {
		t.Fatal("5.0 > 4.9 must match")
	}
	if (RecordFilter{BelowValue: f64Ptr(5.0)}).Matches(record) {
		t.Fatal("belowValue is strict: 5.0 < 5.0 is false")
	}
	if !(RecordFilter{BelowValue: f64Ptr(5.1)}).Matches(record) {
		t.Fatal("5.0 < 5.1 must match")
	}
}

func TestFilterSensorNameExact(t *testing.T) {
	record := sampleRecord("T1", time.Now().UTC(), 5)
	if !(RecordFilter{SensorName: strPtr("T1")}).Matches(record) {
		t.Fatal("exact name must match")
	}
	if (RecordFilter{SensorName: strPtr("t1")}).Matches(record) {
		t.Fatal("name comparison is case-sensitive")
	}
}

func TestReadingValueEquality(t *testing.T) {
	if Celsius(21.5) != NewReading(21.5, UnitCelsius) {
		t.Fatal("readings compare by value")
	}
	if Celsius(21.5) == Celsius(21.6) {
		t.Fatal("different magnitudes must differ")
	}
}

func TestRecordValidate(t *testing.T) {
	record := sampleRecord("T1", time.Now().UTC(), 5)
	if err := record.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	missingSensor := *record
	missingSensor.SensorID = uuid.Nil
	if err := missingSensor.Validate(); err == nil {
		t.Fatal("record without sensor must be invalid")
	}

	badUnit := *record
	badUnit.Reading = Reading{Value: 1, Unit: "Kelvin"}
	if err := badUnit.Validate(); err == nil {
		t.Fatal("unknown unit must be invalid")
	}
}
