package database

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Firefighter represents a user-managed firefighter record
type Firefighter struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Station   int64  `json:"station"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateFirefighter inserts a new firefighter and returns its id
func (db *DB) CreateFirefighter(name, phone string, station int64) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpCreateFirefighter))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec(`
		INSERT INTO firefighters (name, phone, station, created_at)
		VALUES (?, ?, ?, ?)
	`, name, phone, station, nowTimestamp())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpCreateFirefighter).Inc()
		return 0, fmt.Errorf("failed to create firefighter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get firefighter id: %w", err)
	}
	return id, nil
}

// UpdateFirefighter updates a firefighter by id
func (db *DB) UpdateFirefighter(id int64, name, phone string, station int64) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdateFirefighter))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec(`
		UPDATE firefighters SET name = ?, phone = ?, station = ?
		WHERE id = ?
	`, name, phone, station, id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdateFirefighter).Inc()
		return fmt.Errorf("failed to update firefighter: %w", err)
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

// DeleteFirefighter removes a firefighter by id
func (db *DB) DeleteFirefighter(id int64) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeleteFirefighter))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec("DELETE FROM firefighters WHERE id = ?", id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeleteFirefighter).Inc()
		return fmt.Errorf("failed to delete firefighter: %w", err)
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

// ListFirefighters returns all firefighters grouped by station, then name
func (db *DB) ListFirefighters() ([]*Firefighter, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListFirefighters))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, name, phone, station, status, created_at
		FROM firefighters ORDER BY station, name
	`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListFirefighters).Inc()
		return nil, fmt.Errorf("failed to list firefighters: %w", err)
	}
	defer rows.Close()

	var firefighters []*Firefighter
	for rows.Next() {
		var f Firefighter
		if err := rows.Scan(&f.ID, &f.Name, &f.Phone, &f.Station, &f.Status, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan firefighter: %w", err)
		}
		firefighters = append(firefighters, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating firefighters: %w", err)
	}

	return firefighters, nil
}
