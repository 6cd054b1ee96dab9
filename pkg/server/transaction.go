package server

import (
	"errors"
	"net/http"

	"github.com/sdcio/fea-server/pkg/datastore"
	"github.com/sdcio/fea-server/pkg/datastore/types"
)

// ErrorResponse carries a failed request. Operation names the transaction
// operation that failed, if any.
type ErrorResponse struct {
	Error     string `json:"error"`
	Operation string `json:"operation,omitempty"`
}

// httpStatus maps the datastore errors to HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrOperationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrResourceExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, types.ErrInvalidTransaction):
		return http.StatusConflict
	case errors.Is(err, datastore.ErrPluginFailure):
		return http.StatusBadGateway
	case errors.Is(err, datastore.ErrNotRunning), errors.Is(err, datastore.ErrNoBackend):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, code int, err error, operation string) {
	writeJSON(w, code, ErrorResponse{Error: err.Error(), Operation: operation})
}
