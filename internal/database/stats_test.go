package database

import "testing"

func TestGetStatsDefaults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.DetectionsToday != 0 {
		t.Errorf("Expected 0 detections today, got %d", stats.DetectionsToday)
	}
	if stats.AvgResponseTime != 3.2 {
		t.Errorf("Expected default avg response time 3.2, got %f", stats.AvgResponseTime)
	}
	if stats.Date != today() {
		t.Errorf("Expected date %s, got %s", today(), stats.Date)
	}
}

func TestGetStatsDerivedCounts(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	if err := db.UpdateCameraStatus(1, "online", nil); err != nil {
		t.Fatalf("Failed to update camera status: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.ActiveCameras != 1 {
		t.Errorf("Expected 1 active camera, got %d", stats.ActiveCameras)
	}
	if stats.PersonnelOnline != 12 {
		t.Errorf("Expected 12 personnel online, got %d", stats.PersonnelOnline)
	}
}

func TestRolloverStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	if err := db.Seed(nil); err != nil {
		t.Fatalf("Failed to seed db: %v", err)
	}

	logTestDetection(t, db, "fire", 0.91)
	logTestDetection(t, db, "smoke", 0.72)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.DetectionsToday != 2 {
		t.Fatalf("Expected 2 detections before rollover, got %d", stats.DetectionsToday)
	}

	if err := db.RolloverStats(); err != nil {
		t.Fatalf("Failed to roll over stats: %v", err)
	}

	stats, err = db.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.DetectionsToday != 0 {
		t.Errorf("Expected 0 detections after rollover, got %d", stats.DetectionsToday)
	}
	if stats.FireToday != 0 {
		t.Errorf("Expected 0 fires after rollover, got %d", stats.FireToday)
	}
	if stats.AvgResponseTime != 3.2 {
		t.Errorf("Expected avg response time reset to 3.2, got %f", stats.AvgResponseTime)
	}
}
