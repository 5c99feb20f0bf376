// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler normalizes errors and writes them as JSON HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteHTTP handles any error on a request path: normalize to
// StandardError, log, and respond with the mapped status code.
func (h *ErrorHandler) WriteHTTP(w http.ResponseWriter, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"errorCode":    stdErr.Code,
		"errorMessage": stdErr.Message,
		"errorDetails": stdErr.Details,
		"retryable":    stdErr.Retryable,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": stdErr,
	})
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps internal error codes to response status codes.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodePlaceInvalid, ErrCodeGeometryMissing:
		return http.StatusBadRequest
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeSessionExists:
		return http.StatusConflict
	case ErrCodeSeenStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
