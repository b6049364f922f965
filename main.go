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
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"suicket/internal/config"
	"suicket/internal/kafka"
	"suicket/internal/logger"
	"suicket/internal/notify"
	notify_api "suicket/internal/notify/api"
)

func main() {
	log := logger.NewLogger("email-relay")
	defer log.Close()

	log.Info("APP", "Starting Email Relay initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	if cfg.Email.SendGridAPIKey == "" {
		log.Warn("CONFIG", "SENDGRID_API_KEY not set, outbound emails will fail")
	}
	sender := notify.NewSendGridClient(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress)

	var idempotency *notify.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("REDIS", fmt.Sprintf("Redis unreachable, duplicate emails possible: %v", err))
		} else {
			log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
			idempotency = notify.NewIdempotencyStore(redisClient, 24*time.Hour)
			defer redisClient.Close()
		}
	}

	dispatcher := notify.NewDispatcher(sender, idempotency, log)
	handler := notify_api.NewHandler(dispatcher, log)

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{kafka.TopicTicketPurchased}); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		consumer := kafka.NewPurchaseConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
		defer consumer.Close()
		go consumer.Start(ctx, dispatcher.DispatchPurchaseNotice)
		log.Info("KAFKA", "Purchase notice consumer started")
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Email Relay running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Email Relay shutdown complete")
	}
}
