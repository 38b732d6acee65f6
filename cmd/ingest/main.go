package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"kpi-dashboard/internal/domain"
	"kpi-dashboard/internal/repository"
	"kpi-dashboard/internal/util"
)

type sampleSeries struct {
	category string
	name     string
	unit     string
	base     float64
	spread   float64
}

var series = []sampleSeries{
	{domain.CategoryDemandSupply, "orderFillRate", "%", 94, 4},
	{domain.CategoryDemandSupply, "forecastAccuracy", "%", 86, 5},
	{domain.CategoryProduction, "plantUtilization", "%", 80, 6},
	{domain.CategoryProduction, "scrapWastageRate", "%", 3, 1.5},
	{domain.CategoryLogistics, "onTimeDispatch", "%", 93, 4},
	{domain.CategoryLogistics, "fleetUtilization", "%", 78, 8},
	{domain.CategoryMarket, "lostSalesValue", "Cr", 8, 3},
	{domain.CategoryMarket, "salesReturnRate", "%", 1.8, 0.6},
}

func main() {
	dbPath := flag.String("db", "../db/dashboard.db", "SQLite database to fill")
	window := flag.Duration("window", 5*time.Minute, "how far back to generate observations")
	step := flag.Duration("step", 10*time.Second, "spacing between observations")
	flag.Parse()

	if err := util.CheckAndCreateLogFolder(filepath.Dir(*dbPath)); err != nil {
		log.Fatalf("Failed to create database folder: %v", err)
	}

	sqliteStore := repository.NewSQLiteStore(*dbPath)
	if err := sqliteStore.Init(); err != nil {
		log.Fatalf("Failed to initialize SQLite store for ingestion: %v", err)
	}
	defer sqliteStore.Close()

	generateAndIngest(sqliteStore, *window, *step)
}

func generateAndIngest(s domain.DashboardStore, window, step time.Duration) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	endTime := time.Now()
	startTime := endTime.Add(-window)

	log.Printf("Ingesting data from %s to %s...", startTime.Format(time.RFC3339), endTime.Format(time.RFC3339))

	ctx := context.Background()
	count := 0

	for t := startTime; !t.After(endTime); t = t.Add(step) {
		for _, sr := range series {
			raw := sr.base + (rng.Float64()*2-1)*sr.spread
			value := decimal.NewFromFloat(raw).Round(1).InexactFloat64()
			unit := sr.unit

			metric := domain.NewMetric{
				Category:   sr.category,
				MetricName: sr.name,
				Value:      &value,
				Unit:       &unit,
				Metadata:   sampleMetadata(t),
			}

			if _, err := s.InsertMetric(ctx, metric); err != nil {
				log.Printf("Error inserting %s for %s: %v", sr.name, t.Format(time.RFC3339), err)
				continue
			}
			count++
		}
	}

	log.Printf("Data ingestion complete. %d observations stored.", count)
}

// sampleMetadata records the simulated observation time; the store stamps
// its own insertion time.
func sampleMetadata(t time.Time) []byte {
	return []byte(`{"source":"ingest","observedAt":"` + t.UTC().Format(time.RFC3339) + `"}`)
}
