package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"firewatch/internal/config"
	"firewatch/internal/database"
	"firewatch/internal/detector"
	"firewatch/internal/metrics"
)

// Extension whitelists per upload type. The stored name is always a
// generated UUID, so the client filename never reaches the filesystem
// or the detector invocation.
var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".webp": true}
	videoExtensions = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".mkv": true}
)

// UploadHandler accepts a media upload, runs the external detector on it,
// and passes the detector output through. Above-threshold detections go
// through the same ingest path as ?detection=add.
type UploadHandler struct {
	db       *database.DB
	config   *config.Config
	detector *detector.Client
	ingest   *IngestHandler
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *database.DB, cfg *config.Config, det *detector.Client, ingest *IngestHandler) *UploadHandler {
	return &UploadHandler{
		db:       db,
		config:   cfg,
		detector: det,
		ingest:   ingest,
		logger:   slog.Default(),
	}
}

// HandleUpload handles POST ?upload=1 with a multipart file field
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.config.MaxUploadBytes); err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		writeError(w, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		writeError(w, "file is required")
		return
	}
	defer file.Close()

	fileType := r.FormValue("type")
	if fileType == "" {
		fileType = "image"
	}
	if fileType != "image" && fileType != "video" {
		writeError(w, "type must be image or video")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := imageExtensions
	if fileType == "video" {
		allowed = videoExtensions
	}
	if !allowed[ext] {
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		writeError(w, fmt.Sprintf("unsupported %s extension: %s", fileType, ext))
		return
	}

	cameraID := int64(1)
	if idStr := r.FormValue("camera_id"); idStr != "" {
		cameraID, err = strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			writeError(w, "invalid camera_id")
			return
		}
	}

	// Store under a generated name inside the uploads directory
	storedName := uuid.New().String() + ext
	storedPath := filepath.Join(h.config.UploadsDir, storedName)

	out, err := os.Create(storedPath)
	if err != nil {
		h.logger.Error("Failed to create upload file", "path", storedPath, "error", err)
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		writeError(w, "failed to store upload")
		return
	}

	written, err := io.Copy(out, file)
	out.Close()
	if err != nil {
		os.Remove(storedPath)
		h.logger.Error("Failed to write upload", "path", storedPath, "error", err)
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		writeError(w, "failed to store upload")
		return
	}
	metrics.UploadBytes.Observe(float64(written))

	h.logger.Info("Upload stored", "path", storedPath, "bytes", written, "type", fileType)

	result, err := h.detector.Detect(r.Context(), storedPath, fileType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		body := map[string]interface{}{
			"success": false,
			"error":   "detection failed",
		}
		if pe, ok := detector.AsProcessError(err); ok && pe.Raw != "" {
			body["output"] = pe.Raw
		}
		writeJSON(w, body)
		return
	}

	// Log detections that clear their type's confidence threshold, so
	// uploads feed detection rows, stats, buckets, and alerts
	logged := h.recordDetections(cameraID, result)

	metrics.UploadsTotal.WithLabelValues(metrics.DetectorResultSuccess).Inc()
	writeJSON(w, map[string]interface{}{
		"success":    result.Success,
		"file":       storedName,
		"detections": result.Detections,
		"image_path": result.ImagePath,
		"logged":     logged,
	})
}

// recordDetections runs the detector output through the ingest path and
// returns the ids of the detections that were logged
func (h *UploadHandler) recordDetections(cameraID int64, result *detector.Result) []int64 {
	logged := []int64{}
	for _, d := range result.Detections {
		threshold := SmokeConfidenceThreshold
		if d.Type == "fire" {
			threshold = FireConfidenceThreshold
		}
		if d.Type != "fire" && d.Type != "smoke" {
			h.logger.Warn("Skipping unknown detection type", "type", d.Type)
			continue
		}
		if d.Confidence < threshold {
			continue
		}

		id, _, err := h.ingest.RecordDetection(cameraID, d.Type, d.Confidence, d.ImagePath, d.ClipPath)
		if err != nil {
			h.logger.Error("Failed to log upload detection", "camera_id", cameraID, "type", d.Type, "error", err)
			continue
		}
		logged = append(logged, id)
	}
	return logged
}
