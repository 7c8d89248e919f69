package http

import (
	"time"

	sensors "windturbine-api/internal/sensors/domain"
)

// timestampLayout is the wire format for record timestamps on create.
// Values are interpreted in server-local time and stored as UTC.
const timestampLayout = "2006-01-02 15:04"

// SensorDTO is the wire shape of a sensor.
type SensorDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SensorRecordDTO is the wire shape of a sensor record. Timestamps go
// out as RFC3339 UTC regardless of the create-side input format.
type SensorRecordDTO struct {
	ID          string  `json:"id"`
	SensorID    string  `json:"sensorId"`
	SensorName  string  `json:"sensorName"`
	Temperature float64 `json:"temperature"`
	Timestamp   string  `json:"timestamp"`
}

// CreateSensorRequest is the POST /api/sensor body.
type CreateSensorRequest struct {
	Name string `json:"name"`
}

// CreateRecordRequest is the POST /api/data body.
type CreateRecordRequest struct {
	SensorName  string  `json:"sensorName"`
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperature"`
}

func toSensorDTO(sensor *sensors.Sensor) SensorDTO {
	return SensorDTO{ID: sensor.ID.String(), Name: sensor.Name}
}

func toSensorDTOs(list []*sensors.Sensor) []SensorDTO {
	out := make([]SensorDTO, 0, len(list))
	for _, sensor := range list {
		out = append(out, toSensorDTO(sensor))
	}
	return out
}

func toRecordDTO(record *sensors.SensorRecord) SensorRecordDTO {
	return SensorRecordDTO{
		ID:          record.ID.String(),
		SensorID:    record.SensorID.String(),
		SensorName:  record.SensorName,
		Temperature: record.Reading.Value,
		Timestamp:   record.Timestamp.UTC().Format(time.RFC3339),
	}
}

func toRecordDTOs(list []*sensors.SensorRecord) []SensorRecordDTO {
	out := make([]SensorRecordDTO, 0, len(list))
	for _, record := range list {
		out = append(out, toRecordDTO(record))
	}
	return out
}
