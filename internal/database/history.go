package database

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// HistoryBucket is a 30-minute detection count bucket for the chart
type HistoryBucket struct {
	ID            int64  `json:"id"`
	IntervalStart string `json:"interval_start"`
	FireCount     int    `json:"fire_count"`
	SmokeCount    int    `json:"smoke_count"`
}

// ListDetectionHistory returns the buckets from the last N hours, oldest first
func (db *DB) ListDetectionHistory(hours int) ([]*HistoryBucket, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListHistory))
	defer timer.ObserveDuration()

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour).Format(intervalLayout)
	rows, err := db.conn.Query(`
		SELECT id, interval_start, fire_count, smoke_count
		FROM detection_history
		WHERE interval_start >= ?
		ORDER BY interval_start ASC
	`, cutoff)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListHistory).Inc()
		return nil, fmt.Errorf("failed to list detection history: %w", err)
	}
	defer rows.Close()

	var buckets []*HistoryBucket
	for rows.Next() {
		var b HistoryBucket
		if err := rows.Scan(&b.ID, &b.IntervalStart, &b.FireCount, &b.SmokeCount); err != nil {
			return nil, fmt.Errorf("failed to scan history bucket: %w", err)
		}
		buckets = append(buckets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating detection history: %w", err)
	}

	return buckets, nil
}
