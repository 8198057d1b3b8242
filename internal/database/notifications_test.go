package database

import "testing"

func TestLogNotification(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	id, err := db.LogNotification(1, 2, "fire alert at Building A - Warehouse")
	if err != nil {
		t.Fatalf("Failed to log notification: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected non-zero notification id")
	}

	var status, message string
	err = db.Conn().QueryRow("SELECT status, message FROM notifications WHERE id = ?", id).Scan(&status, &message)
	if err != nil {
		t.Fatalf("Failed to read notification: %v", err)
	}
	if status != "sent" {
		t.Errorf("Expected default status sent, got %s", status)
	}
	if message != "fire alert at Building A - Warehouse" {
		t.Errorf("Unexpected message: %s", message)
	}
}
