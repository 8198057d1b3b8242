package database

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Stats holds today's detection counters plus derived site counts
type Stats struct {
	Date            string  `json:"date"`
	DetectionsToday int     `json:"detections_today"`
	FireToday       int     `json:"fire_today"`
	SmokeToday      int     `json:"smoke_today"`
	AvgResponseTime float64 `json:"avg_response_time"`
	ActiveCameras   int     `json:"active_cameras"`
	PersonnelOnline int     `json:"personnel_online"`
}

// GetStats returns today's stats row, creating it with zero defaults if
// absent, plus the derived camera and personnel counts
func (db *DB) GetStats() (*Stats, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpGetStats))
	defer timer.ObserveDuration()

	date := today()
	if _, err := db.conn.Exec("INSERT OR IGNORE INTO stats (date) VALUES (?)", date); err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetStats).Inc()
		return nil, fmt.Errorf("failed to ensure stats row: %w", err)
	}

	stats := &Stats{Date: date, AvgResponseTime: 3.2}
	err := db.conn.QueryRow(`
		SELECT date, detections_today, fire_today, smoke_today, avg_response_time
		FROM stats WHERE date = ?
	`, date).Scan(&stats.Date, &stats.DetectionsToday, &stats.FireToday, &stats.SmokeToday, &stats.AvgResponseTime)
	if err != nil && err != sql.ErrNoRows {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpGetStats).Inc()
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.ActiveCameras, err = db.ActiveCameraCount()
	if err != nil {
		return nil, err
	}

	stats.PersonnelOnline, err = db.OnlinePersonnelCount()
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// RolloverStats starts a fresh zeroed stats row for the current date.
// Called by the midnight maintenance job; previous days' rows are kept.
func (db *DB) RolloverStats() error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpRolloverStats))
	defer timer.ObserveDuration()

	_, err := db.conn.Exec(`
		INSERT INTO stats (date, detections_today, fire_today, smoke_today, avg_response_time)
		VALUES (?, 0, 0, 0, 3.2)
		ON CONFLICT(date) DO UPDATE SET
			detections_today = 0, fire_today = 0, smoke_today = 0, avg_response_time = 3.2
	`, today())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpRolloverStats).Inc()
		return fmt.Errorf("failed to roll over stats: %w", err)
	}
	return nil
}
