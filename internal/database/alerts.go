package database

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Alert represents an alert raised for a high-confidence detection
type Alert struct {
	ID          int64  `json:"id"`
	DetectionID *int64 `json:"detection_id"`
	AlertLevel  string `json:"alert_level"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
}

// Alert statuses accepted by UpdateAlertStatus
var AllowedAlertStatuses = map[string]bool{
	"active":       true,
	"acknowledged": true,
	"resolved":     true,
}

// CreateAlert inserts a new active alert and returns its id
func (db *DB) CreateAlert(detectionID int64, alertLevel, message string) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpCreateAlert))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec(`
		INSERT INTO alerts (detection_id, alert_level, message, status, timestamp)
		VALUES (?, ?, ?, 'active', ?)
	`, detectionID, alertLevel, message, nowTimestamp())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpCreateAlert).Inc()
		return 0, fmt.Errorf("failed to create alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get alert id: %w", err)
	}

	metrics.AlertsCreatedTotal.WithLabelValues(alertLevel).Inc()

	return id, nil
}

// ListAlerts returns the most recent alerts, newest first
func (db *DB) ListAlerts(limit int) ([]*Alert, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListAlerts))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, detection_id, alert_level, message, status, timestamp
		FROM alerts ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListAlerts).Inc()
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.DetectionID, &a.AlertLevel, &a.Message, &a.Status, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

// UpdateAlertStatus sets an alert's status. The caller is expected to have
// validated the status against AllowedAlertStatuses.
func (db *DB) UpdateAlertStatus(id int64, status string) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateAlertStatus))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec("UPDATE alerts SET status = ? WHERE id = ?", status, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateAlertStatus).Inc()
		return fmt.Errorf("failed to update alert status: %w", err)
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

// ActiveAlertCount returns the number of alerts in the active state
func (db *DB) ActiveAlertCount() (int, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpActiveAlertCount))
	defer timer.ObserveDuration()

	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM alerts WHERE status = 'active'").Scan(&count)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpActiveAlertCount).Inc()
		return 0, fmt.Errorf("failed to count active alerts: %w", err)
	}
	return count, nil
}
