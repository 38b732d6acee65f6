package endpoints

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the error envelope. Successful calls write the bare value.
type APIResponse struct {
	Status    bool   `json:"status"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code"`
}

func (res APIResponse) WriteErrorResponseWithStatusCode(w http.ResponseWriter, err error, StatusCode int) {
	res.writeError(w, err.Error(), GetErrorCode(err), StatusCode)
}

// WriteMaskedErrorResponse reports public to the client while taking the
// error code from cause, which may carry details not meant for callers.
func (res APIResponse) WriteMaskedErrorResponse(w http.ResponseWriter, public, cause error, StatusCode int) {
	res.writeError(w, public.Error(), GetErrorCode(cause), StatusCode)
}

func (res APIResponse) writeError(w http.ResponseWriter, msg string, code, StatusCode int) {
	res.Status = false
	res.Error = msg
	res.ErrorCode = code

	errJson, _ := json.Marshal(res)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(StatusCode)
	w.Write(errJson)
}

func (res APIResponse) WriteResultResponse(w http.ResponseWriter, StatusCode int, result interface{}) {
	body, err := json.Marshal(result)
	if err != nil {
		res.WriteErrorResponseWithStatusCode(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(StatusCode)
	w.Write(body)
}
