package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"attensync/internal/api"
	"attensync/internal/auth"
	"attensync/internal/checkin"
	"attensync/internal/config"
	"attensync/internal/extract"
	"attensync/internal/geo"
	"attensync/internal/kv"
	"attensync/internal/metrics"
	"attensync/internal/queue"
	"attensync/internal/record"
	"attensync/internal/relay"
	"attensync/internal/settings"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	m := metrics.New()

	// The key-value backend carries the record blob and runtime settings.
	var kvBackend kv.Store
	var redisKV *kv.Redis
	if cfg.StorageBackend == "memory" && cfg.QueueBackend == "memory" {
		kvBackend = kv.NewMemory()
		log.Println("using in-memory storage; records will not survive a restart")
	} else {
		redisKV = kv.NewRedis(cfg.RedisAddr)
		kvBackend = redisKV
	}

	var store record.Store
	switch cfg.StorageBackend {
	case "postgres":
		db, err := record.NewDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		pg, err := record.NewPostgresStore(context.Background(), db.Client)
		if err != nil {
			return err
		}
		store = pg
	default:
		store = record.NewKVStore(kvBackend)
	}

	sett := settings.New(kvBackend, cfg.RelayURL)

	var notifier checkin.Notifier
	if cfg.RelayMode == "queue" {
		// The relay worker runs in its own process, so queued payloads must
		// cross a shared backend; an in-memory queue would fill up undrained.
		if cfg.QueueBackend == "memory" {
			return errors.New("RELAY_MODE=queue needs QUEUE_BACKEND=redis; an in-memory queue has no worker to drain it")
		}
		notifier = relay.NewPublisher(queue.NewRedisQueue(redisKV.Client(), "attensync:relay"))
	} else {
		notifier = relay.NewClient(sett.RelayURL)
	}

	fence := geo.Fence{
		Center:       geo.Position{Lat: cfg.FenceLat, Lng: cfg.FenceLng},
		RadiusMeters: cfg.FenceRadiusMeters,
	}

	h := &api.Handler{
		Checkin:    checkin.NewService(store, fence, notifier, m),
		Records:    store,
		Settings:   sett,
		Extractor:  extract.New(cfg.ExtractServiceURL, cfg.ExtractSkip),
		Creds:      auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		Metrics:    m,
		JWTIssuer:  cfg.JWTIssuer,
		JWTKey:     cfg.JWTSigningKey,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		Healthy: func(c *gin.Context) bool {
			return redisKV == nil || redisKV.Healthy(c.Request.Context())
		},
	}

	r := api.Router(h, cfg.RateLimitPerMin)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
