package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"university-browser-backend/config"
	"university-browser-backend/internal/api"
	"university-browser-backend/internal/browser"
	"university-browser-backend/internal/chart"
	"university-browser-backend/internal/dataset"
	"university-browser-backend/internal/db"
	"university-browser-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "unibrowser ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("failed to read .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("no configuration at %s, using defaults", configPath)
		cfg = config.Default()
	case err != nil:
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	default:
		logger.Printf("configuration loaded successfully from %s", configPath)
	}
	if src := os.Getenv("DATASET_SOURCE"); src != "" {
		cfg.Dataset.Source = src
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database only mirrors the dataset; the service runs from memory without it.
	var appStore store.Store
	if cfg.Database.Enabled {
		gormDB, err := db.Init(&cfg.Database)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		appStore = store.NewGormStore(gormDB)
		logger.Printf("database initialized successfully (%s)", cfg.Database.Driver)
	}

	loader, err := dataset.NewLoader(&cfg.Dataset, appStore)
	if err != nil {
		logger.Fatalf("failed to create dataset loader: %v", err)
	}
	records, err := loader.Load(ctx)
	if err != nil {
		logger.Fatalf("failed to load dataset from %s: %v", cfg.Dataset.Source, err)
	}

	if appStore != nil && cfg.Dataset.Source != dataset.SourceDB {
		if err := appStore.ReplaceUniversities(ctx, records); err != nil {
			logger.Fatalf("failed to mirror dataset: %v", err)
		}
		logger.Printf("mirrored %d universities to the database", len(records))
	}

	ds := browser.NewDataset(records)
	logger.Printf("dataset ready: %d universities across %d provinces", ds.Len(), len(ds.Provinces()))

	router := api.NewRouter(&cfg.Server, ds, chart.NewRenderer(cfg.Charts.WidthInches, cfg.Charts.HeightInches), appStore)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
