package database

import "fmt"

// SeedSite holds the rows inserted into empty tables at startup
type SeedSite struct {
	Cameras   []*Camera
	Stations  []*Station
	Personnel []*Person
}

// DefaultSeed returns the built-in site layout: two warehouse cameras,
// two fire stations, and the default personnel roster
func DefaultSeed() *SeedSite {
	return &SeedSite{
		Cameras: []*Camera{
			{ID: 1, Name: "Camera 1 - Visual ML", Type: "visual", Location: "Building A - Warehouse",
				Latitude: 14.6005, Longitude: 120.9850, Status: "offline", Temperature: 22.0,
				FramePath: strPtr("camera_frames/camera1_live.jpg")},
			{ID: 2, Name: "Camera 2 - Thermal", Type: "thermal", Location: "Building A - Warehouse",
				Latitude: 14.6010, Longitude: 120.9855, Status: "offline", Temperature: 22.5,
				FramePath: strPtr("camera_frames/camera2_live.jpg")},
		},
		Stations: []*Station{
			{ID: 1, Name: "Fire Station 1", Latitude: 14.5950, Longitude: 120.9800, PersonnelCount: 6},
			{ID: 2, Name: "Fire Station 2", Latitude: 14.6040, Longitude: 120.9900, PersonnelCount: 6},
		},
		Personnel: []*Person{
			{Name: "Admin Johnson", Role: "System Administrator", Type: "admin"},
			{Name: "Admin Chen", Role: "Operations Manager", Type: "admin"},
			{Name: "FF Rodriguez", Role: "Fire Chief - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0001"), Station: int64Ptr(1)},
			{Name: "FF Martinez", Role: "Firefighter - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0002"), Station: int64Ptr(1)},
			{Name: "FF Santos", Role: "Firefighter - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0003"), Station: int64Ptr(1)},
			{Name: "FF Reyes", Role: "Firefighter - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0004"), Station: int64Ptr(1)},
			{Name: "FF Cruz", Role: "Firefighter - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0005"), Station: int64Ptr(1)},
			{Name: "FF Bautista", Role: "Firefighter - Station 1", Type: "firefighter", Phone: strPtr("+63-917-111-0006"), Station: int64Ptr(1)},
			{Name: "FF Garcia", Role: "Fire Chief - Station 2", Type: "firefighter", Phone: strPtr("+63-917-222-0001"), Station: int64Ptr(2)},
			{Name: "FF Lopez", Role: "Firefighter - Station 2", Type: "firefighter", Phone: strPtr("+63-917-222-0002"), Station: int64Ptr(2)},
			{Name: "FF Hernandez", Role: "Firefighter - Station 2", Type: "firefighter", Phone: strPtr("+63-917-222-0003"), Station: int64Ptr(2)},
			{Name: "FF Dela Cruz", Role: "Firefighter - Station 2", Type: "firefighter", Phone: strPtr("+63-917-222-0004"), Station: int64Ptr(2)},
		},
	}
}

// Seed inserts seed rows into any table that is currently empty and
// ensures today's stats row exists. Safe to call on every startup.
func (db *DB) Seed(site *SeedSite) error {
	if site == nil {
		site = DefaultSeed()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM cameras").Scan(&count); err != nil {
		return fmt.Errorf("failed to count cameras: %w", err)
	}
	if count == 0 {
		for _, cam := range site.Cameras {
			status := cam.Status
			if status == "" {
				status = "offline"
			}
			temperature := cam.Temperature
			if temperature == 0 {
				temperature = 22.0
			}
			_, err := tx.Exec(`
				INSERT INTO cameras (id, name, type, location, latitude, longitude, status, temperature, frame_path)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, cam.ID, cam.Name, cam.Type, cam.Location, cam.Latitude, cam.Longitude, status, temperature, cam.FramePath)
			if err != nil {
				return fmt.Errorf("failed to seed camera %d: %w", cam.ID, err)
			}
		}
	}

	if err := tx.QueryRow("SELECT COUNT(*) FROM stations").Scan(&count); err != nil {
		return fmt.Errorf("failed to count stations: %w", err)
	}
	if count == 0 {
		for _, st := range site.Stations {
			_, err := tx.Exec(`
				INSERT INTO stations (id, name, latitude, longitude, personnel_count)
				VALUES (?, ?, ?, ?, ?)
			`, st.ID, st.Name, st.Latitude, st.Longitude, st.PersonnelCount)
			if err != nil {
				return fmt.Errorf("failed to seed station %d: %w", st.ID, err)
			}
		}
	}

	if err := tx.QueryRow("SELECT COUNT(*) FROM personnel").Scan(&count); err != nil {
		return fmt.Errorf("failed to count personnel: %w", err)
	}
	if count == 0 {
		for _, p := range site.Personnel {
			_, err := tx.Exec(`
				INSERT INTO personnel (name, role, type, phone, station, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, p.Name, p.Role, p.Type, p.Phone, p.Station, nowTimestamp())
			if err != nil {
				return fmt.Errorf("failed to seed personnel %q: %w", p.Name, err)
			}
		}
	}

	if _, err := tx.Exec("INSERT OR IGNORE INTO stats (date) VALUES (?)", today()); err != nil {
		return fmt.Errorf("failed to seed stats row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }
