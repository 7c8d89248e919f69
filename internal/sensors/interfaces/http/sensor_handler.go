package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"windturbine-api/internal/audit"
	"windturbine-api/internal/auth"
	"windturbine-api/internal/sensors/application"
	sensors "windturbine-api/internal/sensors/domain"
)

// SensorHandler provides sensor HTTP endpoints.
type SensorHandler struct {
	service *application.SensorService
	audit   audit.Logger
}

// NewSensorHandler constructs a sensor handler. The audit logger may be
// nil, which disables audit trails for sensor mutations.
func NewSensorHandler(service *application.SensorService, auditLogger audit.Logger) (*SensorHandler, error) {
	if service == nil {
		return nil, errors.New("sensor handler: nil service")
	}
	return &SensorHandler{service: service, audit: auditLogger}, nil
}

// ServeHTTP handles /api/sensor and subroutes.
func (h *SensorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/sensor":
		h.handleCollection(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/sensor/name/"):
		h.handleByName(w, r, strings.TrimPrefix(r.URL.Path, "/api/sensor/name/"))
	case strings.HasPrefix(r.URL.Path, "/api/sensor/"):
		h.handleByID(w, r, strings.TrimPrefix(r.URL.Path, "/api/sensor/"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *SensorHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := h.service.GetAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toSensorDTOs(list))
	case http.MethodHead:
		list, err := h.service.GetAll(r.Context())
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

func (h *SensorHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSensorRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	sensor := &sensors.Sensor{ID: uuid.New(), Name: req.Name}
	creation := h.service.Create(r.Context(), sensor)
	if !creation.IsSuccess() {
		status := http.StatusBadRequest
		if strings.Contains(creation.Err(), "already exists") {
			status = http.StatusConflict
		}
		http.Error(w, creation.Err(), status)
		return
	}

	created := creation.Value()
	audit.Emit(r.Context(), h.audit, audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       "sensor.create",
		ResourceType: "sensor",
		ResourceID:   created.ID.String(),
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})

	w.Header().Set("Location", "/api/sensor/"+created.ID.String())
	writeJSON(w, http.StatusCreated, toSensorDTO(created))
}

func (h *SensorHandler) handleByName(w http.ResponseWriter, r *http.Request, name string) {
	if name == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		sensor, err := h.service.GetByName(r.Context(), name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if sensor == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, toSensorDTO(sensor))
	case http.MethodOptions:
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *SensorHandler) handleByID(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		sensor, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if sensor == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		writeJSON(w, http.StatusOK, toSensorDTO(sensor))
	case http.MethodDelete:
		status := h.service.Delete(r.Context(), id)
		switch {
		case status.IsNotFound():
			w.WriteHeader(http.StatusNotFound)
		case status.IsFailure():
			http.Error(w, "An error occurred while deleting the sensor.", http.StatusInternalServerError)
		default:
			audit.Emit(r.Context(), h.audit, audit.Entry{
				Actor:        auth.SubjectFromContext(r.Context()),
				Role:         string(auth.RoleFromContext(r.Context())),
				Action:       "sensor.delete",
				ResourceType: "sensor",
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
