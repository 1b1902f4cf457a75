package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bmkg-weather-api/api"
	"bmkg-weather-api/datasource"
	"bmkg-weather-api/directory"
	"bmkg-weather-api/logging"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := flag.Int("port", 8080, "Port to run the server on")
	stationFile := flag.String("stations", "", "Path to the station directory file (overrides STATION_FILE)")
	flag.Parse()

	// Fail fast when the portal credentials are absent.
	cfg, err := datasource.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *stationFile != "" {
		cfg.StationFile = *stationFile
	}

	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	slog.SetDefault(logger)

	dir, err := directory.Load(cfg.StationFile)
	if err != nil {
		log.Fatalf("Failed to load station directory: %v", err)
	}
	logger.Info("station directory loaded", "file", cfg.StationFile, "stations", dir.Len())

	public := datasource.NewPublicClient(cfg, logger)
	server := api.NewServer(cfg, dir, public, logger, *port)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			logger.Info("server stopped", "error", err)
		}
	}()

	sig := <-shutdownChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}
