package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// FirefighterAlert is one firefighter's copy of a dispatched alert
type FirefighterAlert struct {
	ID            int64    `json:"id"`
	AlertID       *int64   `json:"alert_id"`
	DetectionID   *int64   `json:"detection_id"`
	FirefighterID int64    `json:"firefighter_id"`
	StationID     int64    `json:"station_id"`
	AlertType     string   `json:"alert_type"`
	Location      *string  `json:"location"`
	Area          *string  `json:"area"`
	Confidence    *float64 `json:"confidence"`
	Status        string   `json:"status"`
	ResponseType  *string  `json:"response_type"`
	ReceivedAt    string   `json:"received_at"`
	RespondedAt   *string  `json:"responded_at"`
}

// FirefighterStats tracks an individual firefighter's response performance
type FirefighterStats struct {
	FirefighterID         int64   `json:"firefighter_id"`
	TotalResponded        int     `json:"total_responded"`
	TotalAcknowledged     int     `json:"total_acknowledged"`
	TotalAlertsToday      int     `json:"total_alerts_today"`
	AvgResponseTimeSecond float64 `json:"avg_response_time_seconds"`
	LastResponseAt        *string `json:"last_response_at"`
}

// BroadcastAlertToStation creates a pending dispatch for every online
// firefighter of the station and logs a notification per recipient.
// Returns the created dispatch ids.
func (db *DB) BroadcastAlertToStation(stationID, alertID, detectionID int64, alertType, location, area string, confidence float64) ([]int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpBroadcastDispatch))
	defer timer.ObserveDuration()

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id FROM firefighters WHERE station = ? AND status = 'online'", stationID)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpBroadcastDispatch).Inc()
		return nil, fmt.Errorf("failed to list station firefighters: %w", err)
	}

	var firefighterIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan firefighter id: %w", err)
		}
		firefighterIDs = append(firefighterIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating firefighters: %w", err)
	}
	rows.Close()

	now := nowTimestamp()
	message := fmt.Sprintf("%s alert at %s", alertType, location)

	var dispatchIDs []int64
	for _, ffID := range firefighterIDs {
		result, err := tx.Exec(`
			INSERT INTO firefighter_alerts
			(alert_id, detection_id, firefighter_id, station_id, alert_type, location, area, confidence, status, received_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)
		`, alertID, detectionID, ffID, stationID, alertType, location, area, confidence, now)
		if err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpBroadcastDispatch).Inc()
			return nil, fmt.Errorf("failed to create dispatch: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get dispatch id: %w", err)
		}
		dispatchIDs = append(dispatchIDs, id)

		if _, err := insertNotification(tx, alertID, ffID, message, now); err != nil {
			metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpBroadcastDispatch).Inc()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit broadcast: %w", err)
	}

	return dispatchIDs, nil
}

// ListPendingDispatches returns pending dispatches, newest first, filtered
// by firefighter or station when the corresponding id is non-zero
func (db *DB) ListPendingDispatches(firefighterID, stationID int64) ([]*FirefighterAlert, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListDispatch))
	defer timer.ObserveDuration()

	query := `
		SELECT id, alert_id, detection_id, firefighter_id, station_id, alert_type,
		       location, area, confidence, status, response_type, received_at, responded_at
		FROM firefighter_alerts
		WHERE status = 'pending'
	`
	var args []interface{}
	switch {
	case firefighterID != 0:
		query += " AND firefighter_id = ?"
		args = append(args, firefighterID)
	case stationID != 0:
		query += " AND station_id = ?"
		args = append(args, stationID)
	}
	query += " ORDER BY received_at DESC, id DESC"

	return db.queryDispatches(query, args...)
}

// ListDispatchHistory returns non-pending dispatches, newest first, capped
// at limit, filtered by firefighter or station when the id is non-zero
func (db *DB) ListDispatchHistory(firefighterID, stationID int64, limit int) ([]*FirefighterAlert, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListDispatch))
	defer timer.ObserveDuration()

	query := `
		SELECT id, alert_id, detection_id, firefighter_id, station_id, alert_type,
		       location, area, confidence, status, response_type, received_at, responded_at
		FROM firefighter_alerts
		WHERE status != 'pending'
	`
	var args []interface{}
	switch {
	case firefighterID != 0:
		query += " AND firefighter_id = ?"
		args = append(args, firefighterID)
	case stationID != 0:
		query += " AND station_id = ?"
		args = append(args, stationID)
	}
	query += " ORDER BY received_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return db.queryDispatches(query, args...)
}

func (db *DB) queryDispatches(query string, args ...interface{}) ([]*FirefighterAlert, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListDispatch).Inc()
		return nil, fmt.Errorf("failed to list dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []*FirefighterAlert
	for rows.Next() {
		var fa FirefighterAlert
		err := rows.Scan(&fa.ID, &fa.AlertID, &fa.DetectionID, &fa.FirefighterID, &fa.StationID,
			&fa.AlertType, &fa.Location, &fa.Area, &fa.Confidence, &fa.Status, &fa.ResponseType,
			&fa.ReceivedAt, &fa.RespondedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dispatch: %w", err)
		}
		dispatches = append(dispatches, &fa)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dispatches: %w", err)
	}

	return dispatches, nil
}

// RespondToDispatch records a firefighter's response to a dispatch and
// updates their stats. responseType is "responded" or "acknowledged";
// a "responded" dispatch folds its response time into the running average.
func (db *DB) RespondToDispatch(id int64, responseType string) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpRespondDispatch))
	defer timer.ObserveDuration()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var firefighterID int64
	var receivedAt string
	err = tx.QueryRow("SELECT firefighter_id, received_at FROM firefighter_alerts WHERE id = ?", id).
		Scan(&firefighterID, &receivedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpRespondDispatch).Inc()
		return fmt.Errorf("failed to get dispatch: %w", err)
	}

	respondedAt := nowTimestamp()
	_, err = tx.Exec(`
		UPDATE firefighter_alerts
		SET status = ?, response_type = ?, responded_at = ?
		WHERE id = ?
	`, responseType, responseType, respondedAt, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpRespondDispatch).Inc()
		return fmt.Errorf("failed to update dispatch: %w", err)
	}

	// Response time in seconds; zero if the stored timestamp is unparseable
	var responseSeconds float64
	if received, perr := time.Parse(timestampLayout, receivedAt); perr == nil {
		if responded, perr := time.Parse(timestampLayout, respondedAt); perr == nil {
			responseSeconds = responded.Sub(received).Seconds()
		}
	}

	_, err = tx.Exec(`
		INSERT OR IGNORE INTO firefighter_stats (firefighter_id, stats_date)
		VALUES (?, ?)
	`, firefighterID, today())
	if err != nil {
		return fmt.Errorf("failed to ensure firefighter stats: %w", err)
	}

	if responseType == "responded" {
		// Column references on the right-hand side see the old row values,
		// so the average folds in the new sample before the count bumps
		_, err = tx.Exec(`
			UPDATE firefighter_stats SET
				total_responded = total_responded + 1,
				total_alerts_today = total_alerts_today + 1,
				avg_response_time_seconds = (avg_response_time_seconds * total_responded + ?) / (total_responded + 1),
				last_response_at = ?
			WHERE firefighter_id = ?
		`, responseSeconds, respondedAt, firefighterID)
	} else {
		_, err = tx.Exec(`
			UPDATE firefighter_stats SET
				total_acknowledged = total_acknowledged + 1,
				total_alerts_today = total_alerts_today + 1,
				last_response_at = ?
			WHERE firefighter_id = ?
		`, respondedAt, firefighterID)
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpRespondDispatch).Inc()
		return fmt.Errorf("failed to update firefighter stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit response: %w", err)
	}

	return nil
}

// GetFirefighterStats returns a firefighter's stats, zeroed if none exist
func (db *DB) GetFirefighterStats(firefighterID int64) (*FirefighterStats, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFirefighterStats))
	defer timer.ObserveDuration()

	stats := &FirefighterStats{FirefighterID: firefighterID}
	err := db.conn.QueryRow(`
		SELECT firefighter_id, total_responded, total_acknowledged, total_alerts_today,
		       avg_response_time_seconds, last_response_at
		FROM firefighter_stats WHERE firefighter_id = ?
	`, firefighterID).Scan(&stats.FirefighterID, &stats.TotalResponded, &stats.TotalAcknowledged,
		&stats.TotalAlertsToday, &stats.AvgResponseTimeSecond, &stats.LastResponseAt)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFirefighterStats).Inc()
		return nil, fmt.Errorf("failed to get firefighter stats: %w", err)
	}
	return stats, nil
}

// GetStationStats aggregates the stats of a station's firefighters
func (db *DB) GetStationStats(stationID int64) (*FirefighterStats, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpFirefighterStats))
	defer timer.ObserveDuration()

	stats := &FirefighterStats{}
	var responded, acknowledged, alertsToday sql.NullInt64
	var avgResponse sql.NullFloat64
	err := db.conn.QueryRow(`
		SELECT SUM(fs.total_responded), SUM(fs.total_acknowledged),
		       SUM(fs.total_alerts_today), AVG(fs.avg_response_time_seconds)
		FROM firefighter_stats fs
		JOIN firefighters f ON fs.firefighter_id = f.id
		WHERE f.station = ?
	`, stationID).Scan(&responded, &acknowledged, &alertsToday, &avgResponse)
	if err != nil && err != sql.ErrNoRows {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpFirefighterStats).Inc()
		return nil, fmt.Errorf("failed to get station stats: %w", err)
	}

	stats.TotalResponded = int(responded.Int64)
	stats.TotalAcknowledged = int(acknowledged.Int64)
	stats.TotalAlertsToday = int(alertsToday.Int64)
	stats.AvgResponseTimeSecond = avgResponse.Float64

	return stats, nil
}
