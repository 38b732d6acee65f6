package endpoints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"kpi-dashboard/internal/domain"
	"kpi-dashboard/internal/util"
)

const maxBodyBytes = 1 << 20

type Metrics struct {
	Response APIResponse
	logger   *util.DashboardLogger
	store    domain.DashboardStore
}

func (m *Metrics) Init(store domain.DashboardStore, webSlogger *util.DashboardLogger) {
	m.store = store
	m.logger = webSlogger
}

// ListMetricsHandler serves GET /api/dashboard/metrics[?category=].
func (m *Metrics) ListMetricsHandler(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	metrics, err := m.store.ListMetrics(r.Context(), category)
	if err != nil {
		writeStoreFailure(w, m.Response, m.logger, "ListMetrics()", ErrFetchMetrics, err)
		return
	}

	m.Response.WriteResultResponse(w, http.StatusOK, metrics)
}

// LatestMetricsHandler serves GET /api/dashboard/metrics/latest.
func (m *Metrics) LatestMetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := m.store.LatestMetrics(r.Context())
	if err != nil {
		writeStoreFailure(w, m.Response, m.logger, "LatestMetrics()", ErrFetchLatest, err)
		return
	}

	m.Response.WriteResultResponse(w, http.StatusOK, metrics)
}

// CreateMetricHandler serves POST /api/dashboard/metrics.
func (m *Metrics) CreateMetricHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "While reading metric body. Err - ", err)
		writeBodyFailure(w, m.Response, ErrInvalidMetric, err)
		return
	}

	newMetric, err := domain.ValidateMetric(body)
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_WARN, "Rejected metric payload. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, fmt.Errorf("%w: %w", ErrInvalidMetric, err), http.StatusBadRequest)
		return
	}

	created, err := m.store.InsertMetric(r.Context(), newMetric)
	if err != nil {
		writeStoreFailure(w, m.Response, m.logger, "InsertMetric()", ErrInsertMetric, err)
		return
	}

	m.logger.LogEvent(util.LOG_LEVEL_DEBUG, "Stored metric ", created.MetricName, " id ", created.ID)
	m.Response.WriteResultResponse(w, http.StatusCreated, created)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// writeBodyFailure answers 413 when the body hit maxBodyBytes and 400 for
// any other read error.
func writeBodyFailure(w http.ResponseWriter, res APIResponse, public, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		res.WriteErrorResponseWithStatusCode(w, fmt.Errorf("%w: %w", public, ErrPayloadTooLarge), http.StatusRequestEntityTooLarge)
		return
	}
	res.WriteErrorResponseWithStatusCode(w, fmt.Errorf("%w: %w", public, domain.ErrInvalidPayload), http.StatusBadRequest)
}

// writeStoreFailure logs a store error and answers 408 for a cancelled
// request or 500 with the public message otherwise.
func writeStoreFailure(w http.ResponseWriter, res APIResponse, logger *util.DashboardLogger, op string, public, err error) {
	if errors.Is(err, context.Canceled) {
		logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled during ", op)
		res.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
		return
	}
	logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while ", op, ". Err - ", err)
	res.WriteMaskedErrorResponse(w, public, err, http.StatusInternalServerError)
}
