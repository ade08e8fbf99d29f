package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/speedui/gridkit/pkg/cache"
	"github.com/speedui/gridkit/pkg/errors"
	"github.com/speedui/gridkit/pkg/render"
	"github.com/speedui/gridkit/pkg/store"
)

// ============================================================================
// Response Envelope
// ============================================================================

// Envelope is the standard wrapper for JSON responses.
type Envelope struct {
	OK    bool          `json:"ok"`
	Data  any           `json:"data,omitempty"`
	Error *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload holds structured error information.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Codes for failures that do not originate in pkg/errors.
const (
	codeNotFound         = string(errors.ErrCodeNotFound)
	codeInternal         = string(errors.ErrCodeInternal)
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeBodyTooLarge     = "BODY_TOO_LARGE"
)

func writeSuccess(w http.ResponseWriter, data any, status int) {
	writeJSON(w, Envelope{OK: true, Data: data}, status)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, Envelope{Error: &ErrorPayload{Code: code, Message: message}}, status)
}

func writeJSON(w http.ResponseWriter, env Envelope, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeErr maps err to a status and writes it. Internal failures are
// logged and reported without their details.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	writeError(w, code, msg, status)
}

// classify returns the HTTP status and envelope code for err.
func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, codeBodyTooLarge
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, string(errors.ErrCodeLayoutNotFound)
	case stderrors.Is(err, render.ErrNoConverter):
		return http.StatusNotImplemented, string(errors.ErrCodeUnsupported)
	case stderrors.Is(err, cache.ErrUnavailable):
		return http.StatusServiceUnavailable, string(errors.ErrCodeInternal)
	}

	code := errors.GetCode(err)
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest, string(code)
	case errors.IsNotFound(err):
		return http.StatusNotFound, string(code)
	case code == errors.ErrCodeUnimplemented:
		return http.StatusUnprocessableEntity, string(code)
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, string(code)
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, string(code)
	}
	return http.StatusInternalServerError, codeInternal
}
