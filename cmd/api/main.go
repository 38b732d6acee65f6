package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"kpi-dashboard/internal/catalog"
	"kpi-dashboard/internal/config"
	"kpi-dashboard/internal/domain"
	"kpi-dashboard/internal/repository"
	"kpi-dashboard/internal/router"
	"kpi-dashboard/internal/util"
)

func LoggerInitialize(cfg *config.Config) (*util.DashboardLogger, error) {

	logger := &util.DashboardLogger{}

	err := logger.Init(util.LogOptions{
		Dir:    cfg.LogDir,
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Stderr: cfg.LogStderr,
	})
	if err != nil {
		return nil, err
	}

	logger.LogEvent(util.LOG_LEVEL_INFO, "Service started")

	currentTime := time.Now().Format(time.RFC3339)

	fmt.Fprintf(os.Stderr, "\n%s: KPI dashboard API started \n", currentTime)

	return logger, nil
}

func newStore(cfg *config.Config) (domain.DashboardStore, error) {
	switch cfg.Storage {
	case config.StorageInMemory:
		return repository.NewMemoryStore(), nil
	case config.StorageSQLite:
		return repository.NewSQLiteStore(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage)
	}
}

func main() {
	configDir := flag.String("config", "./configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := LoggerInitialize(cfg)
	if err != nil {
		log.Fatalf("Error while initializing the logger: %v", err)
	}
	defer logger.DeInit()

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to initialize dashboard store: %v", err)
	}
	defer store.Close()

	if cfg.SeedTargets {
		n, err := repository.SeedSampleTargets(context.Background(), store)
		if err != nil {
			log.Fatalf("Failed to seed KPI targets: %v", err)
		}
		logger.LogEvent(util.LOG_LEVEL_INFO, "Seeded ", n, " sample KPI targets")
	}

	deps := router.Dependencies{
		Store:   store,
		Catalog: catalog.NewReader(cfg.KpiPath()),
		DataDir: cfg.DataDir,
		Logger:  logger,
	}

	if err := router.Run(deps, cfg.Addr, cfg.ShutdownTimeout); err != nil {
		logger.LogEvent(util.LOG_LEVEL_ERROR, "Server stopped with error: ", err)
		log.Printf("Server error: %v", err)
	}
}
