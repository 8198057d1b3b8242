package database

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// ActivityEntry is one line in the site activity log
type ActivityEntry struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// AddActivity appends a message to the activity log
func (db *DB) AddActivity(message string) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpAddActivity))
	defer timer.ObserveDuration()

	_, err := db.conn.Exec("INSERT INTO activity (message, timestamp) VALUES (?, ?)", message, nowTimestamp())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpAddActivity).Inc()
		return fmt.Errorf("failed to add activity: %w", err)
	}

	slog.Debug("Activity logged", "message", message)
	return nil
}

// ListActivity returns the most recent activity entries, newest first
func (db *DB) ListActivity(limit int) ([]*ActivityEntry, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListActivity))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, message, timestamp
		FROM activity ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListActivity).Inc()
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}
