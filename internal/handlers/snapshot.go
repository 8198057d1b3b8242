package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"firewatch/internal/config"
	"firewatch/internal/database"
)

// Fixed snapshot limits: every poll re-reads every table in full,
// bounded by these caps
const (
	detectionsLimit = 100
	alertsLimit     = 20
	activityLimit   = 50
	historyHours    = 24
)

// SnapshotHandler serves the full dashboard snapshot
type SnapshotHandler struct {
	db     *database.DB
	config *config.Config
	logger *slog.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(db *database.DB, cfg *config.Config) *SnapshotHandler {
	return &SnapshotHandler{
		db:     db,
		config: cfg,
		logger: slog.Default(),
	}
}

// Snapshot is the aggregate state of every table, the one document the
// dashboard polls
type Snapshot struct {
	Cameras          []*database.Camera        `json:"cameras"`
	Detections       []*database.Detection     `json:"detections"`
	Alerts           []*database.Alert         `json:"alerts"`
	Activity         []*database.ActivityEntry `json:"activity"`
	Firefighters     []*database.Firefighter   `json:"firefighters"`
	Personnel        []*database.Person        `json:"personnel"`
	Stations         []*database.Station       `json:"stations"`
	Stats            *database.Stats           `json:"stats"`
	DetectionHistory []*database.HistoryBucket `json:"detection_history"`
	LastUpdate       string                    `json:"last_update"`
}

// HandleSnapshot handles GET ?api=1
func (h *SnapshotHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Alternate deployment: the external detector writes the snapshot
	// document to disk and we serve it verbatim
	if h.config.SnapshotPath != "" {
		h.serveSnapshotFile(w)
		return
	}

	snapshot, err := h.buildSnapshot()
	if err != nil {
		h.logger.Error("Failed to build snapshot", "error", err)
		writeError(w, "failed to read dashboard state")
		return
	}

	writeJSON(w, snapshot)
}

// buildSnapshot reads every table in the fixed snapshot order
func (h *SnapshotHandler) buildSnapshot() (*Snapshot, error) {
	cameras, err := h.db.ListCameras()
	if err != nil {
		return nil, err
	}

	detections, err := h.db.ListDetections(detectionsLimit)
	if err != nil {
		return nil, err
	}

	alerts, err := h.db.ListAlerts(alertsLimit)
	if err != nil {
		return nil, err
	}

	activity, err := h.db.ListActivity(activityLimit)
	if err != nil {
		return nil, err
	}

	firefighters, err := h.db.ListFirefighters()
	if err != nil {
		return nil, err
	}

	personnel, err := h.db.ListPersonnel()
	if err != nil {
		return nil, err
	}

	stations, err := h.db.ListStations()
	if err != nil {
		return nil, err
	}

	stats, err := h.db.GetStats()
	if err != nil {
		return nil, err
	}

	history, err := h.db.ListDetectionHistory(historyHours)
	if err != nil {
		return nil, err
	}

	// Empty tables render as [] rather than null
	if cameras == nil {
		cameras = []*database.Camera{}
	}
	if detections == nil {
		detections = []*database.Detection{}
	}
	if alerts == nil {
		alerts = []*database.Alert{}
	}
	if activity == nil {
		activity = []*database.ActivityEntry{}
	}
	if firefighters == nil {
		firefighters = []*database.Firefighter{}
	}
	if personnel == nil {
		personnel = []*database.Person{}
	}
	if stations == nil {
		stations = []*database.Station{}
	}
	if history == nil {
		history = []*database.HistoryBucket{}
	}

	return &Snapshot{
		Cameras:          cameras,
		Detections:       detections,
		Alerts:           alerts,
		Activity:         activity,
		Firefighters:     firefighters,
		Personnel:        personnel,
		Stations:         stations,
		Stats:            stats,
		DetectionHistory: history,
		LastUpdate:       time.Now().Format("2006-01-02T15:04:05"),
	}, nil
}

// serveSnapshotFile streams the on-disk snapshot document
func (h *SnapshotHandler) serveSnapshotFile(w http.ResponseWriter) {
	f, err := os.Open(h.config.SnapshotPath)
	if err != nil {
		h.logger.Error("Failed to open snapshot file", "path", h.config.SnapshotPath, "error", err)
		writeError(w, "snapshot file unavailable")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/json")
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("Failed to stream snapshot file", "error", err)
	}
}
