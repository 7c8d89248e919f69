package sensors

import "errors"

// Unit is the measurement unit of a reading, persisted as text.
type Unit string

// Supported reading units.
const (
	UnitCelsius Unit = "Celsius"
)

// ParseUnit maps the stored representation back to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitCelsius:
		return UnitCelsius, nil
	default:
		return "", errors.New("reading: unknown unit " + s)
	}
}

// Reading is an immutable (magnitude, unit) measurement pair. It is a
// plain value type: two readings are equal when both fields are equal.
type Reading struct {
	Value float64
	Unit  Unit
}

// NewReading constructs a reading with an explicit unit.
func NewReading(value float64, unit Unit) Reading {
	return Reading{Value: value, Unit: unit}
}

// Celsius constructs a Celsius temperature reading.
func Celsius(value float64) Reading {
	return Reading{Value: value, Unit: UnitCelsius}
}

// Validate checks that the unit is one of the supported values.
func (r Reading) Validate() error {
	if _, err := ParseUnit(string(r.Unit)); err != nil {
		return err
	}
	return nil
}
