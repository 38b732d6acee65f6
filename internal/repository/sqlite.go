package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"kpi-dashboard/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists metrics and targets in a SQLite file. AUTOINCREMENT
// keeps ids from being reused after a row is gone.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

var _ domain.DashboardStore = (*SQLiteStore)(nil)

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path, now: time.Now}
}

func (s *SQLiteStore) Init() error {
	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS dashboard_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		metric_name TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT,
		timestamp INTEGER NOT NULL,
		metadata TEXT
	);
	CREATE TABLE IF NOT EXISTS kpi_targets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		metric_name TEXT NOT NULL,
		target_value REAL NOT NULL,
		threshold_good REAL,
		threshold_excellent REAL
	);`

	_, err = s.db.Exec(createTablesSQL)
	if err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	log.Println("SQLiteStore initialized.")
	return nil
}

func (s *SQLiteStore) InsertMetric(ctx context.Context, metric domain.NewMetric) (domain.MetricRecord, error) {
	rec := domain.MetricRecord{
		Category:   metric.Category,
		MetricName: metric.MetricName,
		Unit:       metric.Unit,
		Timestamp:  time.Unix(0, s.now().UnixNano()),
		Metadata:   metric.Metadata,
	}
	if metric.Value != nil {
		rec.Value = *metric.Value
	}

	var metadata sql.NullString
	if rec.Metadata != nil {
		metadata = sql.NullString{String: string(rec.Metadata), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO dashboard_metrics(category, metric_name, value, unit, timestamp, metadata) VALUES(?, ?, ?, ?, ?, ?)",
		rec.Category, rec.MetricName, rec.Value, rec.Unit, rec.Timestamp.UnixNano(), metadata)
	if err != nil {
		return domain.MetricRecord{}, fmt.Errorf("error inserting metric: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	if err != nil {
		return domain.MetricRecord{}, fmt.Errorf("error reading metric id: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListMetrics(ctx context.Context, category string) ([]domain.MetricRecord, error) {
	query := "SELECT id, category, metric_name, value, unit, timestamp, metadata FROM dashboard_metrics"
	args := []interface{}{}

	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id ASC"

	return s.queryMetrics(ctx, query, args...)
}

func (s *SQLiteStore) LatestMetrics(ctx context.Context) ([]domain.MetricRecord, error) {
	all, err := s.queryMetrics(ctx, "SELECT id, category, metric_name, value, unit, timestamp, metadata FROM dashboard_metrics ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	return domain.LatestPerName(all), nil
}

func (s *SQLiteStore) queryMetrics(ctx context.Context, query string, args ...interface{}) ([]domain.MetricRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	fetched := make([]domain.MetricRecord, 0)

	for rows.Next() {
		var (
			m        domain.MetricRecord
			unit     sql.NullString
			ts       int64
			metadata sql.NullString
		)

		if err := rows.Scan(&m.ID, &m.Category, &m.MetricName, &m.Value, &unit, &ts, &metadata); err != nil {
			return nil, fmt.Errorf("error scanning metric row: %w", err)
		}
		if unit.Valid {
			u := unit.String
			m.Unit = &u
		}
		if metadata.Valid {
			m.Metadata = json.RawMessage(metadata.String)
		}
		m.Timestamp = time.Unix(0, ts)
		fetched = append(fetched, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return fetched, nil
}

func (s *SQLiteStore) InsertTarget(ctx context.Context, target domain.NewTarget) (domain.KpiTarget, error) {
	kt := domain.KpiTarget{
		MetricName:         target.MetricName,
		ThresholdGood:      target.ThresholdGood,
		ThresholdExcellent: target.ThresholdExcellent,
	}
	if target.TargetValue != nil {
		kt.TargetValue = *target.TargetValue
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO kpi_targets(metric_name, target_value, threshold_good, threshold_excellent) VALUES(?, ?, ?, ?)",
		kt.MetricName, kt.TargetValue, kt.ThresholdGood, kt.ThresholdExcellent)
	if err != nil {
		return domain.KpiTarget{}, fmt.Errorf("error inserting target: %w", err)
	}

	kt.ID, err = res.LastInsertId()
	if err != nil {
		return domain.KpiTarget{}, fmt.Errorf("error reading target id: %w", err)
	}
	return kt, nil
}

func (s *SQLiteStore) ListTargets(ctx context.Context) ([]domain.KpiTarget, error) {
	return s.queryTargets(ctx, "SELECT id, metric_name, target_value, threshold_good, threshold_excellent FROM kpi_targets ORDER BY id ASC")
}

func (s *SQLiteStore) FindTarget(ctx context.Context, metricName string) (domain.KpiTarget, bool, error) {
	targets, err := s.queryTargets(ctx,
		"SELECT id, metric_name, target_value, threshold_good, threshold_excellent FROM kpi_targets WHERE metric_name = ? ORDER BY id ASC LIMIT 1",
		metricName)
	if err != nil {
		return domain.KpiTarget{}, false, err
	}
	if len(targets) == 0 {
		return domain.KpiTarget{}, false, nil
	}
	return targets[0], true, nil
}

func (s *SQLiteStore) queryTargets(ctx context.Context, query string, args ...interface{}) ([]domain.KpiTarget, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	fetched := make([]domain.KpiTarget, 0)

	for rows.Next() {
		var (
			kt        domain.KpiTarget
			good      sql.NullFloat64
			excellent sql.NullFloat64
		)
		if err := rows.Scan(&kt.ID, &kt.MetricName, &kt.TargetValue, &good, &excellent); err != nil {
			return nil, fmt.Errorf("error scanning target row: %w", err)
		}
		if good.Valid {
			v := good.Float64
			kt.ThresholdGood = &v
		}
		if excellent.Valid {
			v := excellent.Float64
			kt.ThresholdExcellent = &v
		}
		fetched = append(fetched, kt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return fetched, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
