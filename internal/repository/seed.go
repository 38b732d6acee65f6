package repository

import (
	"context"
	"fmt"

	"kpi-dashboard/internal/domain"
)

func float(v float64) *float64 {
	return &v
}

// SampleTargets are the demonstration targets loaded on startup.
func SampleTargets() []domain.NewTarget {
	return []domain.NewTarget{
		{MetricName: "orderFillRate", TargetValue: float(95), ThresholdGood: float(90), ThresholdExcellent: float(95)},
		{MetricName: "forecastAccuracy", TargetValue: float(85), ThresholdGood: float(80), ThresholdExcellent: float(90)},
		{MetricName: "plantUtilization", TargetValue: float(80), ThresholdGood: float(75), ThresholdExcellent: float(85)},
		{MetricName: "onTimeDispatch", TargetValue: float(95), ThresholdGood: float(90), ThresholdExcellent: float(95)},
	}
}

// SeedSampleTargets inserts SampleTargets into the store when it holds no
// targets yet, so restarting on a persistent store does not duplicate them.
func SeedSampleTargets(ctx context.Context, store domain.DashboardStore) (int, error) {
	existing, err := store.ListTargets(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing targets: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seeded := 0
	for _, t := range SampleTargets() {
		if _, err := store.InsertTarget(ctx, t); err != nil {
			return seeded, fmt.Errorf("error seeding target %s: %w", t.MetricName, err)
		}
		seeded++
	}
	return seeded, nil
}
