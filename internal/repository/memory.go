package repository

import (
	"context"
	"sync"
	"time"

	"kpi-dashboard/internal/domain"
)

// MemoryStore keeps metrics and targets for the lifetime of the process.
type MemoryStore struct {
	mu           sync.RWMutex
	metrics      []domain.MetricRecord
	targets      []domain.KpiTarget
	nextMetricID int64
	nextTargetID int64
	now          func() time.Time
}

var _ domain.DashboardStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock uses now to stamp inserted metrics.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		metrics:      make([]domain.MetricRecord, 0),
		targets:      make([]domain.KpiTarget, 0),
		nextMetricID: 1,
		nextTargetID: 1,
		now:          now,
	}
}

func (s *MemoryStore) Init() error {
	return nil
}

func (s *MemoryStore) InsertMetric(ctx context.Context, metric domain.NewMetric) (domain.MetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.MetricRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.MetricRecord{
		ID:         s.nextMetricID,
		Category:   metric.Category,
		MetricName: metric.MetricName,
		Unit:       copyString(metric.Unit),
		Timestamp:  s.now(),
		Metadata:   copyRaw(metric.Metadata),
	}
	if metric.Value != nil {
		rec.Value = *metric.Value
	}
	s.nextMetricID++
	s.metrics = append(s.metrics, rec)
	return rec, nil
}

func (s *MemoryStore) ListMetrics(ctx context.Context, category string) ([]domain.MetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MetricRecord, 0, len(s.metrics))
	for _, rec := range s.metrics {
		if category == "" || rec.Category == category {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) LatestMetrics(ctx context.Context) ([]domain.MetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.LatestPerName(s.metrics), nil
}

func (s *MemoryStore) InsertTarget(ctx context.Context, target domain.NewTarget) (domain.KpiTarget, error) {
	if err := ctx.Err(); err != nil {
		return domain.KpiTarget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kt := domain.KpiTarget{
		ID:                 s.nextTargetID,
		MetricName:         target.MetricName,
		ThresholdGood:      copyFloat(target.ThresholdGood),
		ThresholdExcellent: copyFloat(target.ThresholdExcellent),
	}
	if target.TargetValue != nil {
		kt.TargetValue = *target.TargetValue
	}
	s.nextTargetID++
	s.targets = append(s.targets, kt)
	return kt, nil
}

func (s *MemoryStore) ListTargets(ctx context.Context) ([]domain.KpiTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.KpiTarget, len(s.targets))
	copy(out, s.targets)
	return out, nil
}

func (s *MemoryStore) FindTarget(ctx context.Context, metricName string) (domain.KpiTarget, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.KpiTarget{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, kt := range s.targets {
		if kt.MetricName == metricName {
			return kt, true, nil
		}
	}
	return domain.KpiTarget{}, false, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyRaw(m []byte) []byte {
	if m == nil {
		return nil
	}
	out := make([]byte, len(m))
	copy(out, m)
	return out
}
