package database

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Detection represents one fire or smoke detection event
type Detection struct {
	ID            int64    `json:"id"`
	CameraID      int64    `json:"camera_id"`
	CameraName    string   `json:"camera_name"`
	DetectionType string   `json:"detection_type"`
	Confidence    float64  `json:"confidence"`
	ImagePath     *string  `json:"image_path"`
	ClipPath      *string  `json:"clip_path"`
	Location      *string  `json:"location"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Status        string   `json:"status"`
	Timestamp     string   `json:"timestamp"`
}

// LogDetection inserts a detection and, in the same transaction, bumps
// today's stats counters and the current 30-minute history bucket.
// Returns the new detection id.
func (db *DB) LogDetection(d *Detection) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpLogDetection))
	defer timer.ObserveDuration()

	now := time.Now()
	d.Timestamp = now.UTC().Format(timestampLayout)
	if d.Status == "" {
		d.Status = "pending"
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO detections (camera_id, camera_name, detection_type, confidence, image_path, clip_path, location, latitude, longitude, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.CameraID, d.CameraName, d.DetectionType, d.Confidence, d.ImagePath, d.ClipPath,
		d.Location, d.Latitude, d.Longitude, d.Status, d.Timestamp)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpLogDetection).Inc()
		return 0, fmt.Errorf("failed to insert detection: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get detection id: %w", err)
	}

	// Ensure today's stats row exists, then bump its counters
	date := now.Format(dateLayout)
	if _, err := tx.Exec("INSERT OR IGNORE INTO stats (date) VALUES (?)", date); err != nil {
		return 0, fmt.Errorf("failed to ensure stats row: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE stats SET
			detections_today = detections_today + 1,
			fire_today = fire_today + CASE WHEN ? = 'fire' THEN 1 ELSE 0 END,
			smoke_today = smoke_today + CASE WHEN ? = 'smoke' THEN 1 ELSE 0 END
		WHERE date = ?
	`, d.DetectionType, d.DetectionType, date)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpLogDetection).Inc()
		return 0, fmt.Errorf("failed to update daily stats: %w", err)
	}

	// Upsert the 30-minute chart bucket
	_, err = tx.Exec(`
		INSERT INTO detection_history (interval_start, fire_count, smoke_count)
		VALUES (?,
		        CASE WHEN ? = 'fire' THEN 1 ELSE 0 END,
		        CASE WHEN ? = 'smoke' THEN 1 ELSE 0 END)
		ON CONFLICT(interval_start) DO UPDATE SET
			fire_count = fire_count + CASE WHEN ? = 'fire' THEN 1 ELSE 0 END,
			smoke_count = smoke_count + CASE WHEN ? = 'smoke' THEN 1 ELSE 0 END
	`, intervalStartAt(now), d.DetectionType, d.DetectionType, d.DetectionType, d.DetectionType)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpLogDetection).Inc()
		return 0, fmt.Errorf("failed to update detection history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit detection: %w", err)
	}

	metrics.DetectionsLoggedTotal.WithLabelValues(d.DetectionType).Inc()

	d.ID = id
	return id, nil
}

// UpdateDetectionClip sets the clip path on an existing detection
func (db *DB) UpdateDetectionClip(id int64, clipPath string) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateDetectionClip))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec("UPDATE detections SET clip_path = ? WHERE id = ?", clipPath, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateDetectionClip).Inc()
		return fmt.Errorf("failed to update detection clip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListDetections returns the most recent detections, newest first
func (db *DB) ListDetections(limit int) ([]*Detection, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListDetections))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, camera_id, camera_name, detection_type, confidence, image_path, clip_path, location, latitude, longitude, status, timestamp
		FROM detections ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListDetections).Inc()
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	defer rows.Close()

	var detections []*Detection
	for rows.Next() {
		var d Detection
		err := rows.Scan(&d.ID, &d.CameraID, &d.CameraName, &d.DetectionType, &d.Confidence,
			&d.ImagePath, &d.ClipPath, &d.Location, &d.Latitude, &d.Longitude, &d.Status, &d.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detections: %w", err)
	}

	return detections, nil
}
