package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"firewatch/internal/database"
)

// PersonnelHandler handles the personnel CRUD actions
type PersonnelHandler struct {
	db     *database.DB
	logger *slog.Logger
}

// NewPersonnelHandler creates a new personnel handler
func NewPersonnelHandler(db *database.DB) *PersonnelHandler {
	return &PersonnelHandler{
		db:     db,
		logger: slog.Default(),
	}
}

type personnelRequest struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Type    string  `json:"type"`
	Phone   *string `json:"phone"`
	Station *int64  `json:"station"`
	Status  string  `json:"status"`
}

// validate checks the required fields shared by add and update
func (req *personnelRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.Role) == "" {
		return "role is required"
	}
	if strings.TrimSpace(req.Type) == "" {
		return "type is required"
	}
	if !database.AllowedPersonnelTypes[req.Type] {
		return "invalid personnel type: " + req.Type
	}
	return ""
}

// Handle routes ?personnel=list|add|update|delete
func (h *PersonnelHandler) Handle(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("personnel")
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
		writeError(w, "unknown personnel action: "+action)
	}
}

func (h *PersonnelHandler) handleList(w http.ResponseWriter, r *http.Request) {
	personnel, err := h.db.ListPersonnel()
	if err != nil {
		h.logger.Error("Failed to list personnel", "error", err)
		writeError(w, "failed to list personnel")
		return
	}
	if personnel == nil {
		personnel = []*database.Person{}
	}
	writeSuccess(w, map[string]interface{}{"personnel": personnel})
}

func (h *PersonnelHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req personnelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if msg := req.validate(); msg != "" {
		writeError(w, msg)
		return
	}

	id, err := h.db.CreatePersonnel(&database.Person{
		Name:    req.Name,
		Role:    req.Role,
		Type:    req.Type,
		Phone:   req.Phone,
		Station: req.Station,
		Status:  req.Status,
	})
	if err != nil {
		h.logger.Error("Failed to create personnel", "error", err)
		writeError(w, "failed to add personnel")
		return
	}

	h.logger.Info("Personnel added", "id", id, "name", req.Name, "type", req.Type)
	writeSuccess(w, map[string]interface{}{"id": id})
}

func (h *PersonnelHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req personnelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, msg)
		return
	}

	err := h.db.UpdatePersonnel(&database.Person{
		ID:      req.ID,
		Name:    req.Name,
		Role:    req.Role,
		Type:    req.Type,
		Phone:   req.Phone,
		Station: req.Station,
		Status:  req.Status,
	})
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "personnel not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update personnel", "id", req.ID, "error", err)
		writeError(w, "failed to update personnel")
		return
	}

	writeSuccess(w, nil)
}

func (h *PersonnelHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req personnelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}

	err := h.db.DeletePersonnel(req.ID)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "personnel not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete personnel", "id", req.ID, "error", err)
		writeError(w, "failed to delete personnel")
		return
	}

	writeSuccess(w, nil)
}
