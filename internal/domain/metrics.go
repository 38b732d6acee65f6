package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Known categories. The store does not enforce them.
const (
	CategoryDemandSupply = "demand-supply"
	CategoryProduction   = "production"
	CategoryLogistics    = "logistics"
	CategoryMarket       = "market"
)

// MetricRecord is one stored observation. It is never mutated after insertion.
type MetricRecord struct {
	ID         int64           `json:"id"`
	Category   string          `json:"category"`
	MetricName string          `json:"metricName"`
	Value      float64         `json:"value"`
	Unit       *string         `json:"unit"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   json.RawMessage `json:"metadata"`
}

// NewMetric is the insert payload for a MetricRecord: everything but id and
// timestamp. ValidateMetric builds one from a request body.
type NewMetric struct {
	Category   string          `json:"category"`
	MetricName string          `json:"metricName"`
	Value      *float64        `json:"value"`
	Unit       *string         `json:"unit"`
	Metadata   json.RawMessage `json:"metadata"`
}

type KpiTarget struct {
	ID                 int64    `json:"id"`
	MetricName         string   `json:"metricName"`
	TargetValue        float64  `json:"targetValue"`
	ThresholdGood      *float64 `json:"thresholdGood"`
	ThresholdExcellent *float64 `json:"thresholdExcellent"`
}

type NewTarget struct {
	MetricName         string   `json:"metricName"`
	TargetValue        *float64 `json:"targetValue"`
	ThresholdGood      *float64 `json:"thresholdGood"`
	ThresholdExcellent *float64 `json:"thresholdExcellent"`
}

// DashboardStore holds metric observations and KPI targets.
//
// ListMetrics with an empty category returns every record. FindTarget returns
// the first target inserted for the name; ok is false when none exists.
type DashboardStore interface {
	Init() error
	InsertMetric(ctx context.Context, metric NewMetric) (MetricRecord, error)
	ListMetrics(ctx context.Context, category string) ([]MetricRecord, error)
	LatestMetrics(ctx context.Context) ([]MetricRecord, error)
	InsertTarget(ctx context.Context, target NewTarget) (KpiTarget, error)
	ListTargets(ctx context.Context) ([]KpiTarget, error)
	FindTarget(ctx context.Context, metricName string) (KpiTarget, bool, error)
	Close() error
}

// LatestPerName keeps, for each metric name, the record with the greatest
// timestamp. A later record only replaces the current one when its timestamp
// is strictly after it, so the first one seen wins a tie. Names appear in the
// order they were first seen.
func LatestPerName(records []MetricRecord) []MetricRecord {
	index := make(map[string]int)
	latest := make([]MetricRecord, 0)

	for _, rec := range records {
		i, seen := index[rec.MetricName]
		if !seen {
			index[rec.MetricName] = len(latest)
			latest = append(latest, rec)
			continue
		}
		if rec.Timestamp.After(latest[i].Timestamp) {
			latest[i] = rec
		}
	}
	return latest
}
