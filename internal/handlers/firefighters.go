package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"firewatch/internal/database"
)

// FirefighterHandler handles the firefighter CRUD actions
type FirefighterHandler struct {
	db     *database.DB
	logger *slog.Logger
}

// NewFirefighterHandler creates a new firefighter handler
func NewFirefighterHandler(db *database.DB) *FirefighterHandler {
	return &FirefighterHandler{
		db:     db,
		logger: slog.Default(),
	}
}

type firefighterRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Station *int64 `json:"station"`
}

// Handle routes ?firefighter=list|add|update|delete
func (h *FirefighterHandler) Handle(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("firefighter")
	switch action {
	case "list":
		h.handleList(w, r)
	case "add":
		h.handleAdd(w, r)
	case "update":
		h.handleUpdate(w, r)
	case "delete":
		h.handleDelete(w, r)
	default:
		writeError(w, "unknown firefighter action: "+action)
	}
}

func (h *FirefighterHandler) handleList(w http.ResponseWriter, r *http.Request) {
	firefighters, err := h.db.ListFirefighters()
	if err != nil {
		h.logger.Error("Failed to list firefighters", "error", err)
		writeError(w, "failed to list firefighters")
		return
	}
	if firefighters == nil {
		firefighters = []*database.Firefighter{}
	}
	writeSuccess(w, map[string]interface{}{"firefighters": firefighters})
}

func (h *FirefighterHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req firefighterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, "name is required")
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		writeError(w, "phone is required")
		return
	}

	station := int64(1)
	if req.Station != nil {
		station = *req.Station
	}

	id, err := h.db.CreateFirefighter(req.Name, req.Phone, station)
	if err != nil {
		h.logger.Error("Failed to create firefighter", "error", err)
		writeError(w, "failed to add firefighter")
		return
	}

	h.logger.Info("Firefighter added", "id", id, "name", req.Name, "station", station)
	writeSuccess(w, map[string]interface{}{"id": id})
}

func (h *FirefighterHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req firefighterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, "name is required")
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		writeError(w, "phone is required")
		return
	}
	if req.Station == nil {
		writeError(w, "station is required")
		return
	}

	err := h.db.UpdateFirefighter(req.ID, req.Name, req.Phone, *req.Station)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "firefighter not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update firefighter", "id", req.ID, "error", err)
		writeError(w, "failed to update firefighter")
		return
	}

	writeSuccess(w, nil)
}

func (h *FirefighterHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req firefighterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}

	err := h.db.DeleteFirefighter(req.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "firefighter not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete firefighter", "id", req.ID, "error", err)
		writeError(w, "failed to delete firefighter")
		return
	}

	writeSuccess(w, nil)
}
