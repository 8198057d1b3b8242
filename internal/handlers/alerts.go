package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"firewatch/internal/database"
)

// AlertHandler handles alert status transitions
type AlertHandler struct {
	db     *database.DB
	logger *slog.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(db *database.DB) *AlertHandler {
	return &AlertHandler{
		db:     db,
		logger: slog.Default(),
	}
}

type alertUpdateRequest struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// HandleUpdate handles POST ?update_alert=1. Status is whitelisted to
// active, acknowledged, or resolved.
func (h *AlertHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req alertUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if !database.AllowedAlertStatuses[req.Status] {
		writeError(w, "invalid alert status: "+req.Status)
		return
	}

	err := h.db.UpdateAlertStatus(req.ID, req.Status)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "alert not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update alert", "id", req.ID, "error", err)
		writeError(w, "failed to update alert")
		return
	}

	h.logger.Info("Alert status updated", "id", req.ID, "status", req.Status)
	writeSuccess(w, nil)
}
