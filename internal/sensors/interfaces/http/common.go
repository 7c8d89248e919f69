// Package http exposes the sensor and record REST endpoints. Handlers
// parse and validate input, call the application services and translate
// Result outcomes into status codes; no business rules live here.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sensors "windturbine-api/internal/sensors/domain"
)

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseRecordFilter builds a record filter from query parameters.
// Dates accept the create-side layout (interpreted in local time) or
// RFC3339; numeric bounds must parse as floats.
func parseRecordFilter(r *http.Request) (sensors.RecordFilter, error) {
	var filter sensors.RecordFilter

	query := r.URL.Query()
	if name := query.Get("sensorName"); name != "" {
		filter.SensorName = &name
	}
	if raw := query.Get("startDate"); raw != "" {
		parsed, err := parseFilterTime(raw)
		if err != nil {
			return sensors.RecordFilter{}, err
		}
		filter.StartDate = &parsed
	}
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := parseFilterTime(raw)
		if err != nil {
			return sensors.RecordFilter{}, err
		}
		filter.EndDate = &parsed
	}
	if raw := query.Get("aboveValue"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sensors.RecordFilter{}, fmt.Errorf("Invalid numeric value: '%s'.", raw)
		}
		filter.AboveValue = &value
	}
	if raw := query.Get("belowValue"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return sensors.RecordFilter{}, fmt.Errorf("Invalid numeric value: '%s'.", raw)
		}
		filter.BelowValue = &value
	}

	return filter.Normalize(), nil
}

func parseFilterTime(raw string) (time.Time, error) {
	if parsed, err := time.ParseInLocation(timestampLayout, raw, time.Local); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("Invalid date format: '%s'. Expected 'yyyy-MM-dd HH:mm'.", raw)
}
