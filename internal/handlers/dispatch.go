package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"firewatch/internal/config"
	"firewatch/internal/database"
)

const dispatchHistoryLimit = 20

// DispatchHandler handles the firefighter alert flow: station broadcasts,
// pending/history queries, responses, and per-firefighter stats
type DispatchHandler struct {
	db     *database.DB
	config *config.Config
	logger *slog.Logger
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(db *database.DB, cfg *config.Config) *DispatchHandler {
	return &DispatchHandler{
		db:     db,
		config: cfg,
		logger: slog.Default(),
	}
}

// Handle routes ?dispatch=broadcast|pending|history|respond|stats
func (h *DispatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("dispatch")
	switch action {
	case "broadcast":
		h.handleBroadcast(w, r)
	case "pending":
		h.handlePending(w, r)
	case "history":
		h.handleHistory(w, r)
	case "respond":
		h.handleRespond(w, r)
	case "stats":
		h.handleStats(w, r)
	default:
		writeError(w, "unknown dispatch action: "+action)
	}
}

type broadcastRequest struct {
	StationID   int64   `json:"station_id"`
	AlertID     int64   `json:"alert_id"`
	DetectionID int64   `json:"detection_id"`
	AlertType   string  `json:"alert_type"`
	Location    string  `json:"location"`
	Area        string  `json:"area"`
	Confidence  float64 `json:"confidence"`
}

func (h *DispatchHandler) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req broadcastRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.StationID == 0 {
		writeError(w, "station_id is required")
		return
	}
	if req.AlertType == "" {
		writeError(w, "alert_type is required")
		return
	}

	ids, err := h.db.BroadcastAlertToStation(req.StationID, req.AlertID, req.DetectionID,
		req.AlertType, req.Location, req.Area, req.Confidence)
	if err != nil {
		h.logger.Error("Failed to broadcast alert", "station_id", req.StationID, "error", err)
		writeError(w, "failed to broadcast alert")
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	h.logger.Info("Alert broadcast to station", "station_id", req.StationID,
		"alert_id", req.AlertID, "recipients", len(ids))
	writeSuccess(w, map[string]interface{}{"dispatch_ids": ids})
}

func (h *DispatchHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	firefighterID, stationID, ok := dispatchFilter(w, r)
	if !ok {
		return
	}

	dispatches, err := h.db.ListPendingDispatches(firefighterID, stationID)
	if err != nil {
		h.logger.Error("Failed to list pending dispatches", "error", err)
		writeError(w, "failed to list pending dispatches")
		return
	}
	if dispatches == nil {
		dispatches = []*database.FirefighterAlert{}
	}
	writeSuccess(w, map[string]interface{}{"alerts": dispatches})
}

func (h *DispatchHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	firefighterID, stationID, ok := dispatchFilter(w, r)
	if !ok {
		return
	}

	dispatches, err := h.db.ListDispatchHistory(firefighterID, stationID, dispatchHistoryLimit)
	if err != nil {
		h.logger.Error("Failed to list dispatch history", "error", err)
		writeError(w, "failed to list dispatch history")
		return
	}
	if dispatches == nil {
		dispatches = []*database.FirefighterAlert{}
	}
	writeSuccess(w, map[string]interface{}{"alerts": dispatches})
}

type respondRequest struct {
	ID           int64  `json:"id"`
	ResponseType string `json:"response_type"`
}

func (h *DispatchHandler) handleRespond(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req respondRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if req.ResponseType != "responded" && req.ResponseType != "acknowledged" {
		writeError(w, "response_type must be responded or acknowledged")
		return
	}

	err := h.db.RespondToDispatch(req.ID, req.ResponseType)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "dispatch not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to respond to dispatch", "id", req.ID, "error", err)
		writeError(w, "failed to respond to dispatch")
		return
	}

	h.logger.Info("Dispatch response recorded", "id", req.ID, "response_type", req.ResponseType)
	writeSuccess(w, nil)
}

func (h *DispatchHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	firefighterID, stationID, ok := dispatchFilter(w, r)
	if !ok {
		return
	}

	var stats *database.FirefighterStats
	var err error
	switch {
	case firefighterID != 0:
		stats, err = h.db.GetFirefighterStats(firefighterID)
	case stationID != 0:
		stats, err = h.db.GetStationStats(stationID)
	default:
		writeError(w, "firefighter_id or station_id is required")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get dispatch stats", "error", err)
		writeError(w, "failed to get dispatch stats")
		return
	}

	writeSuccess(w, map[string]interface{}{"stats": stats})
}

// dispatchFilter parses the optional firefighter_id / station_id query
// parameters shared by the read actions
func dispatchFilter(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	firefighterID, ok := parseIDParam(w, r, "firefighter_id")
	if !ok {
		return 0, 0, false
	}
	stationID, ok := parseIDParam(w, r, "station_id")
	if !ok {
		return 0, 0, false
	}
	return firefighterID, stationID, true
}
