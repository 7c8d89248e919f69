package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"windturbine-api/internal/audit"
	"windturbine-api/internal/auth"
	"windturbine-api/internal/config"
	"windturbine-api/internal/observability/metrics"
	"windturbine-api/internal/sensors/application"
	sensors "windturbine-api/internal/sensors/domain"
	"windturbine-api/internal/sensors/infrastructure/memory"
	"windturbine-api/internal/sensors/infrastructure/postgres"
	"windturbine-api/internal/sensors/infrastructure/sqlite"
	sensorhttp "windturbine-api/internal/sensors/interfaces/http"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	// Repositories constructed here are read-only; every mutation goes
	// through a write set the services open per operation.
	var (
		db          *sql.DB
		sensorRepo  sensors.SensorRepository
		recordRepo  sensors.SensorRecordRepository
		store       sensors.Store
		auditLogger audit.Logger
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			logger.Fatalf("db schema error: %v", err)
		}
		pgStore, err := postgres.NewStore(db)
		if err != nil {
			logger.Fatalf("store error: %v", err)
		}
		sensorRepo = postgres.NewSensorRepository(db, nil)
		recordRepo = postgres.NewSensorRecordRepository(db, nil)
		store = pgStore

		auditRepo := audit.NewRepository(db)
		if err := auditRepo.EnsureSchema(ctx); err != nil {
			logger.Fatalf("audit schema error: %v", err)
		}
		auditLogger = auditRepo

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Fatalf("db dir error: %v", err)
			}
		}
		db, err = sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		liteStore, err := sqlite.NewStore(db)
		if err != nil {
			logger.Fatalf("store error: %v", err)
		}
		sensorRepo = sqlite.NewSensorRepository(db, nil)
		recordRepo = sqlite.NewSensorRecordRepository(db, nil)
		store = liteStore

	default:
		memStore := memory.NewStore()
		sensorRepo = memory.NewSensorRepository(memStore, nil)
		recordRepo = memory.NewSensorRecordRepository(memStore, nil)
		store = memStore
	}

	metrics.Init(db, logger)

	factory, err := sensors.NewSensorFactory(sensorRepo)
	if err != nil {
		logger.Fatalf("factory error: %v", err)
	}
	sensorService, err := application.NewSensorService(factory, sensorRepo, store, logger)
	if err != nil {
		logger.Fatalf("sensor service error: %v", err)
	}
	recordService, err := application.NewRecordService(recordRepo, store, logger)
	if err != nil {
		logger.Fatalf("record service error: %v", err)
	}

	sensorHandler, err := sensorhttp.NewSensorHandler(sensorService, auditLogger)
	if err != nil {
		logger.Fatalf("sensor handler error: %v", err)
	}
	recordHandler, err := sensorhttp.NewRecordHandler(recordService, sensorService, auditLogger)
	if err != nil {
		logger.Fatalf("record handler error: %v", err)
	}
	exportHandler, err := sensorhttp.NewExportHandler(recordService)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/sensor", sensorHandler)
	mux.Handle("/api/sensor/", sensorHandler)
	mux.Handle("/api/data", recordHandler)
	mux.Handle("/api/data/", recordHandler)
	mux.Handle("/api/export/", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("listening on %s (driver=%s)", cfg.HTTPAddr, cfg.DBDriver)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
