package database

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/metrics"
)

// Person represents a system personnel record, admins included
type Person struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Type      string  `json:"type"`
	Phone     *string `json:"phone"`
	Station   *int64  `json:"station"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// Personnel types accepted at the API boundary
var AllowedPersonnelTypes = map[string]bool{
	"admin":       true,
	"firefighter": true,
	"operator":    true,
	"technician":  true,
}

// CreatePersonnel inserts a new personnel record and returns its id
func (db *DB) CreatePersonnel(p *Person) (int64, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpCreatePersonnel))
	defer timer.ObserveDuration()

	status := p.Status
	if status == "" {
		status = "online"
	}

	result, err := db.conn.Exec(`
		INSERT INTO personnel (name, role, type, phone, station, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Role, p.Type, p.Phone, p.Station, status, nowTimestamp())
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpCreatePersonnel).Inc()
		return 0, fmt.Errorf("failed to create personnel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get personnel id: %w", err)
	}
	return id, nil
}

// UpdatePersonnel updates a personnel record by id
func (db *DB) UpdatePersonnel(p *Person) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpUpdatePersonnel))
	defer timer.ObserveDuration()

	status := p.Status
	if status == "" {
		status = "online"
	}

	result, err := db.conn.Exec(`
		UPDATE personnel SET name = ?, role = ?, type = ?, phone = ?, station = ?, status = ?
		WHERE id = ?
	`, p.Name, p.Role, p.Type, p.Phone, p.Station, status, p.ID)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpUpdatePersonnel).Inc()
		return fmt.Errorf("failed to update personnel: %w", err)
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

// DeletePersonnel removes a personnel record by id
func (db *DB) DeletePersonnel(id int64) error {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpDeletePersonnel))
	defer timer.ObserveDuration()

	result, err := db.conn.Exec("DELETE FROM personnel WHERE id = ?", id)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpDeletePersonnel).Inc()
		return fmt.Errorf("failed to delete personnel: %w", err)
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

// ListPersonnel returns all personnel grouped by type, then name
func (db *DB) ListPersonnel() ([]*Person, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpListPersonnel))
	defer timer.ObserveDuration()

	rows, err := db.conn.Query(`
		SELECT id, name, role, type, phone, station, status, created_at
		FROM personnel ORDER BY type, name
	`)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpListPersonnel).Inc()
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	defer rows.Close()

	var personnel []*Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Type, &p.Phone, &p.Station, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		personnel = append(personnel, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating personnel: %w", err)
	}

	return personnel, nil
}

// OnlinePersonnelCount returns the number of personnel marked online
func (db *DB) OnlinePersonnelCount() (int, error) {
	timer := prometheus.NewTimer(metrics.DBOperationDuration.WithLabelValues(metrics.DBOpOnlinePersonnelCount))
	defer timer.ObserveDuration()

	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM personnel WHERE status = 'online'").Scan(&count)
	if err != nil {
		metrics.DBOperationErrorsTotal.WithLabelValues(metrics.DBOpOnlinePersonnelCount).Inc()
		return 0, fmt.Errorf("failed to count online personnel: %w", err)
	}
	return count, nil
}
