package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"procview/api"
	"procview/collector"
	"procview/config"
	"procview/killer"
	"procview/snapshot"
)

// Build info
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg := config.Load()

	log.Printf("procview %s (%s) built on %s", version, commit, date)
	log.Printf("Cache TTL: %v, grace period: %v", cfg.CacheTTL, cfg.GracePeriod)

	provider := snapshot.New()
	roster := collector.NewService(provider, cfg.CacheTTL)
	kill := killer.New(provider, cfg.GracePeriod)

	// First reading primes the delta so roster responses report real CPU usage.
	collector.PrimeCPUSampling()

	server, err := api.NewServer(api.Config{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Roster:  roster,
		Killer:  kill,
		Metrics: collector.SystemMetrics,
	})
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-stop
		log.Println("Shutting down...")
		cancel()
	}()

	log.Printf("Process viewer listening on http://localhost:%d", cfg.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
