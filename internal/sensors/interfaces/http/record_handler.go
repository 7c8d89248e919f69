package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"windturbine-api/internal/audit"
	"windturbine-api/internal/auth"
	"windturbine-api/internal/sensors/application"
	sensors "windturbine-api/internal/sensors/domain"
)

// RecordHandler provides sensor-record HTTP endpoints.
type RecordHandler struct {
	records *application.RecordService
	sensors *application.SensorService
	audit   audit.Logger
}

// NewRecordHandler constructs a record handler. The sensor service
// resolves owning sensors on create; the audit logger may be nil.
func NewRecordHandler(records *application.RecordService, sensorService *application.SensorService, auditLogger audit.Logger) (*RecordHandler, error) {
	if records == nil {
		return nil, errors.New("record handler: nil record service")
	}
	if sensorService == nil {
		return nil, errors.New("record handler: nil sensor service")
	}
	return &RecordHandler{records: records, sensors: sensorService, audit: auditLogger}, nil
}

// ServeHTTP handles /api/data and subroutes.
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/data":
		h.handleCollection(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/data/"):
		h.handleByID(w, r, strings.TrimPrefix(r.URL.Path, "/api/data/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *RecordHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := parseRecordFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		list, err := h.records.GetFiltered(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toRecordDTOs(list))
	case http.MethodHead:
		filter, err := parseRecordFilter(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		list, err := h.records.GetFiltered(r.Context(), filter)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(len(list)))
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodOptions:
		w.Header().Set("Allow", "GET, POST, HEAD, OPTIONS")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *RecordHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	var sensor *sensors.Sensor
	if req.SensorName != "" {
		var err error
		sensor, err = h.sensors.GetByName(r.Context(), req.SensorName)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	if sensor == nil {
		http.Error(w, fmt.Sprintf("Sensor with name '%s' not found.", req.SensorName), http.StatusBadRequest)
		return
	}

	timestamp, err := parseCreateTimestamp(req.Timestamp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record := &sensors.SensorRecord{
		ID:         uuid.New(),
		SensorID:   sensor.ID,
		Timestamp:  timestamp.UTC(),
		Reading:    sensors.Celsius(req.Temperature),
		SensorName: sensor.Name,
	}
	creation := h.records.Create(r.Context(), record)
	if !creation.IsSuccess() {
		http.Error(w, creation.Err(), http.StatusInternalServerError)
		return
	}

	created := creation.Value()
	audit.Emit(r.Context(), h.audit, audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "record.create",
		ResourceType: "sensor_record",
		ResourceID:   created.ID.String(),
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})

	w.Header().Set("Location", "/api/data/"+created.ID.String())
	writeJSON(w, http.StatusCreated, toRecordDTO(created))
}

// parseCreateTimestamp accepts exactly the 'yyyy-MM-dd HH:mm' wire
// layout, interpreted in local time. Go's parser tolerates unpadded
// fields, so the round trip pins the shape.
func parseCreateTimestamp(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(timestampLayout, raw, time.Local)
	if err != nil || parsed.Format(timestampLayout) != raw {
		return time.Time{}, fmt.Errorf("Invalid date format: '%s'. Expected 'yyyy-MM-dd HH:mm'.", raw)
	}
	return parsed, nil
}

func (h *RecordHandler) handleByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		record, err := h.records.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if record == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, toRecordDTO(record))
	case http.MethodDelete:
		status := h.records.Delete(r.Context(), id)
		switch {
		case status.IsNotFound():
			w.WriteHeader(http.StatusNotFound)
		case status.IsFailure():
			http.Error(w, "An error occurred while deleting the sensor record.", http.StatusInternalServerError)
		default:
			audit.Emit(r.Context(), h.audit, audit.Entry{
				Actor:        auth.SubjectFromContext(r.Context()),
				Role:         string(auth.RoleFromContext(r.Context())),
				Action:       "record.delete",
				ResourceType: "sensor_record",
				ResourceID:   id.String(),
				IP:           audit.ClientIP(r),
				UserAgent:    r.UserAgent(),
			})
			w.WriteHeader(http.StatusNoContent)
		}
	case http.MethodOptions:
		w.Header().Set("Allow", "GET, DELETE, HEAD, OPTIONS")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
