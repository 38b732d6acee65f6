package endpoints

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"kpi-dashboard/internal/domain"
	"kpi-dashboard/internal/util"
)

type Targets struct {
	Response APIResponse
	logger   *util.DashboardLogger
	store    domain.DashboardStore
}

func (t *Targets) Init(store domain.DashboardStore, webSlogger *util.DashboardLogger) {
	t.store = store
	t.logger = webSlogger
}

func (t *Targets) ListTargetsHandler(w http.ResponseWriter, r *http.Request) {
	targets, err := t.store.ListTargets(r.Context())
	if err != nil {
		writeStoreFailure(w, t.Response, t.logger, "ListTargets()", ErrFetchTargets, err)
		return
	}

	t.Response.WriteResultResponse(w, http.StatusOK, targets)
}

// GetTargetHandler serves GET /api/dashboard/targets/{metricName}.
func (t *Targets) GetTargetHandler(w http.ResponseWriter, r *http.Request) {
	metricName := mux.Vars(r)["metricName"]

	target, found, err := t.store.FindTarget(r.Context(), metricName)
	if err != nil {
		writeStoreFailure(w, t.Response, t.logger, "FindTarget()", ErrFetchTarget, err)
		return
	}

	if !found {
		t.logger.LogEvent(util.LOG_LEVEL_WARN, "No target for metric ", metricName)
		t.Response.WriteErrorResponseWithStatusCode(w, ErrTargetMissing, http.StatusNotFound)
		return
	}

	t.Response.WriteResultResponse(w, http.StatusOK, target)
}

func (t *Targets) CreateTargetHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		t.logger.LogEvent(util.LOG_LEVEL_ERROR, "While reading target body. Err - ", err)
		writeBodyFailure(w, t.Response, ErrInvalidTarget, err)
		return
	}

	newTarget, err := domain.ValidateTarget(body)
	if err != nil {
		t.logger.LogEvent(util.LOG_LEVEL_WARN, "Rejected target payload. Err - ", err)
		t.Response.WriteErrorResponseWithStatusCode(w, fmt.Errorf("%w: %w", ErrInvalidTarget, err), http.StatusBadRequest)
		return
	}

	created, err := t.store.InsertTarget(r.Context(), newTarget)
	if err != nil {
		writeStoreFailure(w, t.Response, t.logger, "InsertTarget()", ErrInsertTarget, err)
		return
	}

	t.Response.WriteResultResponse(w, http.StatusCreated, created)
}
