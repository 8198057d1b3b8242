package database

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Camera represents a site camera
type Camera struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Status      string  `json:"status"`
	Temperature float64 `json:"temperature"`
	FramePath   *string `json:"frame_path"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListCameras returns all cameras ordered by id
func (db *DB) ListCameras() ([]*Camera, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListCameras))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, name, type, location, latitude, longitude, status, temperature, frame_path, created_at, updated_at
		FROM cameras ORDER BY id
	`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListCameras).Inc()
		return nil, fmt.Errorf("failed to list cameras: %w", err)
	}
	defer rows.Close()

	var cameras []*Camera
	for rows.Next() {
		var c Camera
		err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Location, &c.Latitude, &c.Longitude,
			&c.Status, &c.Temperature, &c.FramePath, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cameras: %w", err)
	}

	return cameras, nil
}

// GetCamera retrieves a camera by id, returning nil if it does not exist
func (db *DB) GetCamera(id int64) (*Camera, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetCamera))
	defer timer.ObserveDuration()

	var c Camera
	err := db.conn.QueryRow(`
		SELECT id, name, type, location, latitude, longitude, status, temperature, frame_path, created_at, updated_at
		FROM cameras WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Type, &c.Location, &c.Latitude, &c.Longitude,
		&c.Status, &c.Temperature, &c.FramePath, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetCamera).Inc()
		return nil, fmt.Errorf("failed to get camera: %w", err)
	}
	return &c, nil
}

// UpdateCameraStatus updates a camera's status and, when given, its temperature
func (db *DB) UpdateCameraStatus(id int64, status string, temperature *float64) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateCameraStatus))
	defer timer.ObserveDuration()

	var result sql.Result
	var err error
	if temperature != nil {
		result, err = db.conn.Exec(`
			UPDATE cameras SET status = ?, temperature = ?, updated_at = ?
			WHERE id = ?
		`, status, *temperature, nowTimestamp(), id)
	} else {
		result, err = db.conn.Exec(`
			UPDATE cameras SET status = ?, updated_at = ?
			WHERE id = ?
		`, status, nowTimestamp(), id)
	}

	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateCameraStatus).Inc()
		return fmt.Errorf("failed to update camera status: %w", err)
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

// ActiveCameraCount returns the number of cameras with status online
func (db *DB) ActiveCameraCount() (int, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpActiveCameraCount))
	defer timer.ObserveDuration()

	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM cameras WHERE status = 'online'").Scan(&count)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpActiveCameraCount).Inc()
		return 0, fmt.Errorf("failed to count active cameras: %w", err)
	}
	return count, nil
}
