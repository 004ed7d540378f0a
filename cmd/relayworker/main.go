package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attensync/internal/config"
	"attensync/internal/kv"
	"attensync/internal/queue"
	"attensync/internal/relay"
	"attensync/internal/settings"
)

// The relay worker drains queued webhook payloads and delivers them. Run it
// alongside the API when RELAY_MODE=queue; deliveries stay best-effort, a
// failed payload is logged and dropped.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisKV := kv.NewRedis(cfg.RedisAddr)
	sett := settings.New(redisKV, cfg.RelayURL)
	client := relay.NewClient(sett.RelayURL)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		log.Fatal("relay worker needs QUEUE_BACKEND=redis; an in-memory queue cannot cross processes")
	}
	q = queue.NewRedisQueue(redisKV.Client(), "attensync:relay")

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("relay worker started, waiting for payloads...")
	for msg := range messages {
		if msg.Type != "relay" {
			continue
		}

		var p relay.Payload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			log.Printf("bad relay payload dropped: %v", err)
			continue
		}

		url := sett.RelayURL(ctx)
		if url == "" {
			log.Printf("relay url unset, dropping payload for %s", p.StudentID)
			continue
		}

		dctx, dcancel := context.WithTimeout(ctx, 15*time.Second)
		if err := client.Deliver(dctx, url, p); err != nil {
			log.Printf("relay delivery failed for %s: %v", p.StudentID, err)
		} else {
			log.Printf("relayed check-in for %s (%s)", p.StudentID, p.Status)
		}
		dcancel()
	}

	log.Println("relay worker stopped")
}
