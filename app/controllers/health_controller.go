package controllers

import (
	"log/slog"
	"net/http"

	"inkwell/store"
)

// HealthController reports the store connection state.
type HealthController struct {
	responder
	store *store.Manager
}

// NewHealthController creates a HealthController.
func NewHealthController(m *store.Manager, log *slog.Logger) *HealthController {
	return &HealthController{
		responder: responder{log: log},
		store:     m,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Show answers 200 while the store is connected, 503 otherwise.
func (hc *HealthController) Show(w http.ResponseWriter, r *http.Request) {
	st := hc.store.State()

	status := http.StatusOK
	label := "ok"
	if !st.Connected {
		status = http.StatusServiceUnavailable
		label = "degraded"
	}
	hc.sendJSON(w, status, healthResponse{Status: label, Store: st.Raw})
}
