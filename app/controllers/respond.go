package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/store"
)

// Error kinds exposed on the wire.
const (
	kindValidation  = "validation_error"
	kindInvalidID   = "invalid_id"
	kindNotFound    = "not_found"
	kindBadRequest  = "bad_request"
	kindUnavailable = "store_unavailable"
	kindInternal    = "internal_error"
)

type errorBody struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// responder holds the response helpers shared by the controllers. In
// production mode internal error details never reach the wire.
type responder struct {
	production bool
	log        *slog.Logger
}

func (rp *responder) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// sendError maps a service error to its status code and wire kind:
// not-found 404, validation and malformed IDs 400, store unreachable 503,
// anything else 500.
func (rp *responder) sendError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		rp.sendJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    kindValidation,
			Message: "validation failed",
			Fields:  verr.Fields,
		}})
	case errors.Is(err, repositories.ErrInvalidID):
		rp.sendJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Kind:    kindInvalidID,
			Message: "identifier is not well formed",
		}})
	case errors.Is(err, repositories.ErrNotFound):
		rp.sendJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Kind:    kindNotFound,
			Message: "resource not found",
		}})
	case store.IsConnectionError(err):
		rp.log.ErrorContext(r.Context(), "store unavailable", "error", err)
		rp.sendJSON(w, http.StatusServiceUnavailable, errorResponse{Error: errorBody{
			Kind:    kindUnavailable,
			Message: "store unavailable",
		}})
	default:
		rp.log.ErrorContext(r.Context(), "internal error", "error", err, "path", r.URL.Path)
		msg := "internal server error"
		if !rp.production {
			msg = err.Error()
		}
		rp.sendJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
			Kind:    kindInternal,
			Message: msg,
		}})
	}
}

func (rp *responder) badRequest(w http.ResponseWriter, message string) {
	rp.sendJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
		Kind:    kindBadRequest,
		Message: message,
	}})
}
