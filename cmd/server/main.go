package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"station-walk-router/internal/config"
	"station-walk-router/internal/directions"
	"station-walk-router/internal/indoor"
	"station-walk-router/internal/resolver"
	"station-walk-router/internal/server"
	"station-walk-router/internal/sqlite"
	"station-walk-router/internal/stations"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cache, err := sqlite.New(cfg.CacheDBPath)
	if err != nil {
		return fmt.Errorf("failed to open distance cache: %w", err)
	}
	defer cache.Close()

	gateway, err := directions.NewMapboxGateway(cfg.MapboxAccessToken, cache)
	if err != nil {
		return fmt.Errorf("failed to create directions gateway: %w", err)
	}

	directory := stations.Default()
	catalog := indoor.Default()

	opts := resolver.DefaultOptions()
	opts.SearchRadiusMeters = cfg.SearchRadiusM
	res := resolver.New(directory, catalog, gateway, opts)

	srv := server.New(server.Config{Addr: cfg.Addr}, res, directory)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-shutdown:
		log.Printf("Received signal %v, starting graceful shutdown", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not gracefully shutdown the server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
