package database

import (
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Notification is a record of one firefighter being notified of an alert
type Notification struct {
	ID            int64  `json:"id"`
	AlertID       int64  `json:"alert_id"`
	FirefighterID int64  `json:"firefighter_id"`
	Message       string `json:"message"`
	SentAt        string `json:"sent_at"`
	Status        string `json:"status"`
}

// execer is satisfied by both *sql.DB and *sql.Tx, so notification inserts
// can run standalone or inside a broadcast transaction
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertNotification(ex execer, alertID, firefighterID int64, message, sentAt string) (int64, error) {
	result, err := ex.Exec(`
		INSERT INTO notifications (alert_id, firefighter_id, message, sent_at)
		VALUES (?, ?, ?, ?)
	`, alertID, firefighterID, message, sentAt)
	if err != nil {
		return 0, fmt.Errorf("failed to log notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get notification id: %w", err)
	}
	return id, nil
}

// LogNotification records that a firefighter was notified of an alert
func (db *DB) LogNotification(alertID, firefighterID int64, message string) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpLogNotification))
	defer timer.ObserveDuration()

	id, err := insertNotification(db.conn, alertID, firefighterID, message, nowTimestamp())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpLogNotification).Inc()
		return 0, err
	}
	return id, nil
}
