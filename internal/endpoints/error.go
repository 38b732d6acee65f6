package endpoints

import (
	"context"
	"errors"

	"kpi-dashboard/internal/catalog"
	"kpi-dashboard/internal/domain"
)

const (
	API_SUCCESS = iota + 303000 // 303000
	API_FAILURE                 // 303001 - Generic API failure
)

const (
	INVALID_REQUEST_BODY    = iota + 102 // 102 - Insert payload failed decoding or validation
	TARGET_NOT_FOUND                     // 103 - No KPI target for the metric name
	KPI_CATALOG_UNAVAILABLE              // 104 - KPI fixture could not be read or parsed
	REQUEST_CANCELLED                    // 105 - Request was cancelled by client or server timeout
	PAYLOAD_TOO_LARGE                    // 106 - Insert body exceeded the size limit
)

var (
	ErrFetchMetrics  = errors.New("failed to fetch dashboard metrics")
	ErrFetchLatest   = errors.New("failed to fetch latest metrics")
	ErrInvalidMetric = errors.New("invalid metric data")
	ErrInsertMetric  = errors.New("failed to store dashboard metric")
	ErrFetchTargets  = errors.New("failed to fetch KPI targets")
	ErrFetchTarget   = errors.New("failed to fetch KPI target")
	ErrTargetMissing = errors.New("target not found")
	ErrInvalidTarget = errors.New("invalid target data")
	ErrInsertTarget  = errors.New("failed to store KPI target")
	ErrFetchKpis     = errors.New("failed to fetch KPI data")

	ErrRequestCancelled = errors.New("request cancelled by client or server timeout")
	ErrPayloadTooLarge  = errors.New("request body too large")
)

func GetErrorCode(err error) int {
	if err == nil {
		return API_SUCCESS
	}

	switch {
	case errors.Is(err, domain.ErrInvalidPayload):
		return INVALID_REQUEST_BODY
	case errors.Is(err, ErrTargetMissing):
		return TARGET_NOT_FOUND
	case errors.Is(err, catalog.ErrCatalogRead), errors.Is(err, catalog.ErrCatalogParse):
		return KPI_CATALOG_UNAVAILABLE
	case errors.Is(err, ErrRequestCancelled), errors.Is(err, context.Canceled):
		return REQUEST_CANCELLED
	case errors.Is(err, ErrPayloadTooLarge):
		return PAYLOAD_TOO_LARGE
	default:
		return API_FAILURE // Default for any unhandled error
	}
}
