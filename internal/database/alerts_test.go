package database

import (
	"errors"
	"testing"
)

func TestCreateAndListAlerts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	detectionID := logTestDetection(t, db, "fire", 0.91)

	id, err := db.CreateAlert(detectionID, "critical", "FIRE detected at Building A - Warehouse - Confidence: 91.0%")
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero alert id")
	}

	alerts, err := db.ListAlerts(10)
	if err != nil {
		t.Fatalf("Failed to list alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].AlertLevel != "critical" {
		t.Errorf("Expected alert level critical, got %s", alerts[0].AlertLevel)
	}
	if alerts[0].Status != "active" {
		t.Errorf("Expected status active, got %s", alerts[0].Status)
	}
	if alerts[0].DetectionID == nil || *alerts[0].DetectionID != detectionID {
		t.Errorf("Expected detection id %d, got %v", detectionID, alerts[0].DetectionID)
	}
}

func TestListAlertsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	detectionID := logTestDetection(t, db, "fire", 0.91)

	first, err := db.CreateAlert(detectionID, "warning", "first")
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	second, err := db.CreateAlert(detectionID, "critical", "second")
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	alerts, err := db.ListAlerts(10)
	if err != nil {
		t.Fatalf("Failed to list alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].ID != second || alerts[1].ID != first {
		t.Errorf("Expected ids [%d %d], got [%d %d]", second, first, alerts[0].ID, alerts[1].ID)
	}
}

func TestUpdateAlertStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	detectionID := logTestDetection(t, db, "fire", 0.91)
	id, err := db.CreateAlert(detectionID, "critical", "test alert")
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	if err := db.UpdateAlertStatus(id, "acknowledged"); err != nil {
		t.Fatalf("Failed to update alert: %v", err)
	}

	alerts, err := db.ListAlerts(1)
	if err != nil {
		t.Fatalf("Failed to list alerts: %v", err)
	}
	if alerts[0].Status != "acknowledged" {
		t.Errorf("Expected status acknowledged, got %s", alerts[0].Status)
	}
}

func TestUpdateNonexistentAlertStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	err := db.UpdateAlertStatus(99, "resolved")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestActiveAlertCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	detectionID := logTestDetection(t, db, "fire", 0.91)
	id, err := db.CreateAlert(detectionID, "critical", "test alert")
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	if _, err := db.CreateAlert(detectionID, "warning", "another alert"); err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	count, err := db.ActiveAlertCount()
	if err != nil {
		t.Fatalf("Failed to count active alerts: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 active alerts, got %d", count)
	}

	if err := db.UpdateAlertStatus(id, "resolved"); err != nil {
		t.Fatalf("Failed to update alert: %v", err)
	}

	count, err = db.ActiveAlertCount()
	if err != nil {
		t.Fatalf("Failed to count active alerts: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 active alert, got %d", count)
	}
}
