package database

import (
	"errors"
	"testing"
)

func TestGetCamera(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	camera, err := db.GetCamera(1)
	if err != nil {
		t.Fatalf("Failed to get camera: %v", err)
	}
	if camera == nil {
		t.Fatal("Expected camera, got nil")
	}
	if camera.Name != "Camera 1 - Visual ML" {
		t.Errorf("Expected camera name 'Camera 1 - Visual ML', got %s", camera.Name)
	}
	if camera.Location != "Building A - Warehouse" {
		t.Errorf("Expected location 'Building A - Warehouse', got %s", camera.Location)
	}
}

func TestGetNonexistentCamera(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	camera, err := db.GetCamera(99)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if camera != nil {
		t.Error("Expected nil camera, got non-nil")
	}
}

func TestUpdateCameraStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	temp := 31.5
	if err := db.UpdateCameraStatus(1, "online", &temp); err != nil {
		t.Fatalf("Failed to update camera status: %v", err)
	}

	camera, err := db.GetCamera(1)
	if err != nil {
		t.Fatalf("Failed to get camera: %v", err)
	}
	if camera.Status != "online" {
		t.Errorf("Expected status online, got %s", camera.Status)
	}
	if camera.Temperature != 31.5 {
		t.Errorf("Expected temperature 31.5, got %f", camera.Temperature)
	}

	// Status-only update keeps the temperature
	if err := db.UpdateCameraStatus(1, "offline", nil); err != nil {
		t.Fatalf("Failed to update camera status: %v", err)
	}
	camera, err = db.GetCamera(1)
	if err != nil {
		t.Fatalf("Failed to get camera: %v", err)
	}
	if camera.Status != "offline" {
		t.Errorf("Expected status offline, got %s", camera.Status)
	}
	if camera.Temperature != 31.5 {
		t.Errorf("Expected temperature to be kept at 31.5, got %f", camera.Temperature)
	}
}

func TestUpdateNonexistentCameraStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	err := db.UpdateCameraStatus(99, "online", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestActiveCameraCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	count, err := db.ActiveCameraCount()
	if err != nil {
		t.Fatalf("Failed to count active cameras: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 active cameras, got %d", count)
	}

	if err := db.UpdateCameraStatus(1, "online", nil); err != nil {
		t.Fatalf("Failed to update camera status: %v", err)
	}

	count, err = db.ActiveCameraCount()
	if err != nil {
		t.Fatalf("Failed to count active cameras: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 active camera, got %d", count)
	}
}
