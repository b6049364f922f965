package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"suicket/internal/auth"
	checkin_api "suicket/internal/checkin/api"
	checkin_db "suicket/internal/checkin/db"
	"suicket/internal/config"
	"suicket/internal/kafka"
	"suicket/internal/ledger"
	"suicket/internal/logger"
	"suicket/internal/monitoring"
	"suicket/internal/scan"
)

func main() {
	log := logger.NewLogger("scanner-service")
	defer log.Close()

	log.Info("APP", "Starting Scanner Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}

	gateway := ledger.NewClient(cfg.Ledger.RPCURL, cfg.Ledger.RequestTimeout, log)
	validator := scan.NewValidator(gateway, log)
	log.Info("LEDGER", fmt.Sprintf("Ledger gateway pointed at %s", cfg.Ledger.RPCURL))

	audit, err := checkin_db.Open(cfg.AuditDB.DSN, cfg.AuditDB.SQLitePath)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open audit database: %v", err))
	}
	defer audit.Close()
	if err := audit.Init(context.Background()); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to initialize audit schema: %v", err))
	}
	log.Info("DATABASE", "✅ Scan audit store ready")

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{kafka.TopicTicketCheckin}); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		log.Info("KAFKA", "Checkin producer initialized")
	}

	metrics := monitoring.NewMetrics()

	handler := &checkin_api.Handler{
		Validator: validator,
		Audit:     audit,
		Metrics:   metrics,
		Logger:    log,
	}
	if producer != nil {
		handler.Publisher = producer
	}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","message":"Scanner service is running"}`))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware([]byte(cfg.Auth.JWTSecret)))
		r.Use(auth.RequireRole(auth.ScannerRole))
		handler.RegisterRoutes(r)
	})
	log.Info("ROUTER", "Scan routes registered under /api with scanner role required")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Scanner Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Scanner Service shutdown complete")
	}
}
