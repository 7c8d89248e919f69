package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"windturbine-api/internal/sensors/application"
	sensors "windturbine-api/internal/sensors/domain"
	"windturbine-api/internal/sensors/infrastructure/memory"
)

type fixture struct {
	sensors *SensorHandler
	records *RecordHandler
	export  *ExportHandler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	return buildFixture(t, memory.NewSensorRepository(store, nil), memory.NewSensorRecordRepository(store, nil), store)
}

func buildFixture(t *testing.T, sensorRepo sensors.SensorRepository, recordRepo sensors.SensorRecordRepository, store sensors.Store) fixture {
	t.Helper()
	factory, err := sensors.NewSensorFactory(sensorRepo)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	sensorService, err := application.NewSensorService(factory, sensorRepo, store, nil)
	if err != nil {
		t.Fatalf("sensor service: %v", err)
	}
	recordService, err := application.NewRecordService(recordRepo, store, nil)
	if err != nil {
		t.Fatalf("record service: %v", err)
	}

	sensorHandler, err := NewSensorHandler(sensorService, nil)
	if err != nil {
		t.Fatalf("sensor handler: %v", err)
	}
	recordHandler, err := NewRecordHandler(recordService, sensorService, nil)
	if err != nil {
		t.Fatalf("record handler: %v", err)
	}
	exportHandler, err := NewExportHandler(recordService)
	if err != nil {
		t.Fatalf("export handler: %v", err)
	}
	return fixture{sensors: sensorHandler, records: recordHandler, export: exportHandler}
}

func doRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func createSensor(t *testing.T, f fixture, name string) SensorDTO {
	t.Helper()
	resp := doRequest(f.sensors, http.MethodPost, "/api/sensor", `{"name":"`+name+`"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create sensor %q: code = %d, body %q", name, resp.Code, resp.Body.String())
	}
	var dto SensorDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode sensor: %v", err)
	}
	return dto
}

func TestSensorCreateAndGetByID(t *testing.T) {
	f := newFixture(t)
	created := createSensor(t, f, "T1")
	if created.Name != "T1" {
		t.Fatalf("name = %q, want T1", created.Name)
	}

	resp := doRequest(f.sensors, http.MethodPost, "/api/sensor", `{"name":"T2"}`)
	if loc := resp.Header().Get("Location"); !strings.HasPrefix(loc, "/api/sensor/") {
		t.Fatalf("Location = %q", loc)
	}

	get := doRequest(f.sensors, http.MethodGet, "/api/sensor/"+created.ID, "")
	if get.Code != http.StatusOK {
		t.Fatalf("get code = %d", get.Code)
	}
	var loaded SensorDTO
	if err := json.Unmarshal(get.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loaded.ID != created.ID || loaded.Name != "T1" {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestSensorCreateDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	createSensor(t, f, "T1")

	resp := doRequest(f.sensors, http.MethodPost, "/api/sensor", `{"name":"T1"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "already exists") {
		t.Fatalf("body = %q", resp.Body.String())
	}
}

func TestSensorCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	if resp := doRequest(f.sensors, http.MethodPost, "/api/sensor", `not json`); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad json code = %d, want 400", resp.Code)
	}
	if resp := doRequest(f.sensors, http.MethodPost, "/api/sensor", `{"name":""}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("empty name code = %d, want 400", resp.Code)
	}
}

func TestSensorGetAbsent(t *testing.T) {
	f := newFixture(t)

	if resp := doRequest(f.sensors, http.MethodGet, "/api/sensor/"+uuid.NewString(), ""); resp.Code != http.StatusNotFound {
		t.Fatalf("unknown id code = %d, want 404", resp.Code)
	}
	if resp := doRequest(f.sensors, http.MethodGet, "/api/sensor/not-a-uuid", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("malformed id code = %d, want 404", resp.Code)
	}
	if resp := doRequest(f.sensors, http.MethodGet, "/api/sensor/name/missing", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("unknown name code = %d, want 404", resp.Code)
	}
}

func TestSensorGetByName(t *testing.T) {
	f := newFixture(t)
	created := createSensor(t, f, "T1")

	resp := doRequest(f.sensors, http.MethodGet, "/api/sensor/name/T1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d", resp.Code)
	}
	var dto SensorDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dto.ID != created.ID {
		t.Fatalf("id = %q, want %q", dto.ID, created.ID)
	}
}

func TestSensorDeleteLifecycle(t *testing.T) {
	f := newFixture(t)
	created := createSensor(t, f, "T1")

	if resp := doRequest(f.sensors, http.MethodDelete, "/api/sensor/"+created.ID, ""); resp.Code != http.StatusNoContent {
		t.Fatalf("delete code = %d, want 204", resp.Code)
	}
	if resp := doRequest(f.sensors, http.MethodGet, "/api/sensor/"+created.ID, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("get after delete code = %d, want 404", resp.Code)
	}
	if resp := doRequest(f.sensors, http.MethodDelete, "/api/sensor/"+created.ID, ""); resp.Code != http.StatusNotFound {
		t.Fatalf("second delete code = %d, want 404", resp.Code)
	}
}

func TestSensorCollectionHeadAndOptions(t *testing.T) {
	f := newFixture(t)
	createSensor(t, f, "T1")
	createSensor(t, f, "T2")

	head := doRequest(f.sensors, http.MethodHead, "/api/sensor", "")
	if head.Code != http.StatusOK {
		t.Fatalf("head code = %d", head.Code)
	}
	if count := head.Header().Get("X-Total-Count"); count != "2" {
		t.Fatalf("X-Total-Count = %q, want 2", count)
	}

	options := doRequest(f.sensors, http.MethodOptions, "/api/sensor", "")
	if options.Code != http.StatusOK {
		t.Fatalf("options code = %d", options.Code)
	}
	if allow := options.Header().Get("Allow"); !strings.Contains(allow, "POST") {
		t.Fatalf("Allow = %q", allow)
	}
}

func TestSensorMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	if resp := doRequest(f.sensors, http.MethodPut, "/api/sensor", `{}`); resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("code = %d, want 405", resp.Code)
	}
}
