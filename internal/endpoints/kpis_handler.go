package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"kpi-dashboard/internal/util"
)

// CatalogLoader returns the KPI catalog, optionally narrowed to one section.
type CatalogLoader interface {
	Load(ctx context.Context, section string) (json.RawMessage, error)
}

type Kpis struct {
	Response APIResponse
	logger   *util.DashboardLogger
	catalog  CatalogLoader
}

func (k *Kpis) Init(catalog CatalogLoader, webSlogger *util.DashboardLogger) {
	k.catalog = catalog
	k.logger = webSlogger
}

// ListKpisHandler serves GET /api/kpis[?section=].
func (k *Kpis) ListKpisHandler(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")

	kpis, err := k.catalog.Load(r.Context(), section)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			k.logger.LogEvent(util.LOG_LEVEL_WARN, "Context cancelled")
			k.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
			return
		}
		k.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while loading KPI catalog. Err - ", err)
		k.Response.WriteMaskedErrorResponse(w, ErrFetchKpis, err, http.StatusInternalServerError)
		return
	}

	k.Response.WriteResultResponse(w, http.StatusOK, kpis)
}
