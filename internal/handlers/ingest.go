package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"firewatch/internal/config"
	"firewatch/internal/database"
)

// Detection thresholds used by the upload pipeline, and the confidence
// at which a detection raises an alert
const (
	FireConfidenceThreshold  = 0.70
	SmokeConfidenceThreshold = 0.65
	AlertConfidenceThreshold = 0.85
)

// IngestHandler handles the detector-facing write endpoints: detection
// logging, clip updates, camera status, and activity entries
type IngestHandler struct {
	db     *database.DB
	config *config.Config
	logger *slog.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(db *database.DB, cfg *config.Config) *IngestHandler {
	return &IngestHandler{
		db:     db,
		config: cfg,
		logger: slog.Default(),
	}
}

// authorized checks the optional bearer token guarding the ingest surface.
// An unset key leaves the endpoints open, matching the original deployment.
func (h *IngestHandler) authorized(r *http.Request) bool {
	if h.config.IngestAPIKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+h.config.IngestAPIKey
}

// requireAuth rejects unauthorized ingest requests
func (h *IngestHandler) requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if !h.authorized(r) {
		h.logger.Warn("Unauthorized ingest request", "path", r.URL.Path)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

type detectionAddRequest struct {
	CameraID   int64   `json:"camera_id"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	ImagePath  string  `json:"image_path"`
	ClipPath   string  `json:"clip_path"`
}

// HandleDetectionAdd handles POST ?detection=add
func (h *IngestHandler) HandleDetectionAdd(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !h.requireAuth(w, r) {
		return
	}

	var req detectionAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.CameraID == 0 {
		writeError(w, "camera_id is required")
		return
	}
	if req.Type != "fire" && req.Type != "smoke" {
		writeError(w, "type must be fire or smoke")
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		writeError(w, "confidence must be between 0 and 1")
		return
	}

	detectionID, alertID, err := h.RecordDetection(req.CameraID, req.Type, req.Confidence, req.ImagePath, req.ClipPath)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "camera not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to record detection", "camera_id", req.CameraID, "error", err)
		writeError(w, "failed to record detection")
		return
	}

	fields := map[string]interface{}{"detection_id": detectionID}
	if alertID != 0 {
		fields["alert_id"] = alertID
	}
	writeSuccess(w, fields)
}

// RecordDetection resolves the camera, logs the detection (bumping stats
// and the chart bucket in the same transaction), and raises an alert at
// high confidence. Returns the detection id and, if raised, the alert id.
func (h *IngestHandler) RecordDetection(cameraID int64, detectionType string, confidence float64, imagePath, clipPath string) (int64, int64, error) {
	camera, err := h.db.GetCamera(cameraID)
	if err != nil {
		return 0, 0, err
	}
	if camera == nil {
		return 0, 0, database.ErrNotFound
	}

	detection := &database.Detection{
		CameraID:      camera.ID,
		CameraName:    camera.Name,
		DetectionType: detectionType,
		Confidence:    confidence,
		Location:      &camera.Location,
		Latitude:      &camera.Latitude,
		Longitude:     &camera.Longitude,
	}
	if imagePath != "" {
		detection.ImagePath = &imagePath
	}
	if clipPath != "" {
		detection.ClipPath = &clipPath
	}

	detectionID, err := h.db.LogDetection(detection)
	if err != nil {
		return 0, 0, err
	}

	h.logger.Info("Detection logged", "id", detectionID, "camera_id", cameraID,
		"type", detectionType, "confidence", confidence)

	var alertID int64
	if confidence >= AlertConfidenceThreshold {
		alertLevel := "warning"
		if detectionType == "fire" {
			alertLevel = "critical"
		}
		message := fmt.Sprintf("%s detected at %s - Confidence: %.1f%%",
			strings.ToUpper(detectionType), camera.Location, confidence*100)

		alertID, err = h.db.CreateAlert(detectionID, alertLevel, message)
		if err != nil {
			return detectionID, 0, err
		}
		if err := h.db.AddActivity("ALERT: " + message); err != nil {
			h.logger.Error("Failed to log alert activity", "error", err)
		}

		h.logger.Warn("Alert raised", "alert_id", alertID, "level", alertLevel, "message", message)
	}

	return detectionID, alertID, nil
}

type detectionClipRequest struct {
	ID       int64  `json:"id"`
	ClipPath string `json:"clip_path"`
}

// HandleDetectionClip handles POST ?detection=clip
func (h *IngestHandler) HandleDetectionClip(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !h.requireAuth(w, r) {
		return
	}

	var req detectionClipRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if strings.TrimSpace(req.ClipPath) == "" {
		writeError(w, "clip_path is required")
		return
	}

	err := h.db.UpdateDetectionClip(req.ID, req.ClipPath)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "detection not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update detection clip", "id", req.ID, "error", err)
		writeError(w, "failed to update detection clip")
		return
	}

	writeSuccess(w, nil)
}

type cameraStatusRequest struct {
	ID          int64    `json:"id"`
	Status      string   `json:"status"`
	Temperature *float64 `json:"temperature"`
}

// HandleCameraStatus handles POST ?camera=status
func (h *IngestHandler) HandleCameraStatus(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !h.requireAuth(w, r) {
		return
	}

	var req cameraStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if req.ID == 0 {
		writeError(w, "id is required")
		return
	}
	if req.Status != "online" && req.Status != "offline" {
		writeError(w, "status must be online or offline")
		return
	}

	err := h.db.UpdateCameraStatus(req.ID, req.Status, req.Temperature)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, "camera not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to update camera status", "id", req.ID, "error", err)
		writeError(w, "failed to update camera status")
		return
	}

	writeSuccess(w, nil)
}

type activityAddRequest struct {
	Message string `json:"message"`
}

// HandleActivityAdd handles POST ?activity=add
func (h *IngestHandler) HandleActivityAdd(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) || !h.requireAuth(w, r) {
		return
	}

	var req activityAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, "message is required")
		return
	}

	if err := h.db.AddActivity(req.Message); err != nil {
		h.logger.Error("Failed to add activity", "error", err)
		writeError(w, "failed to add activity")
		return
	}

	writeSuccess(w, nil)
}
