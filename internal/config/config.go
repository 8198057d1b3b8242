package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"firewatch/internal/database"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Host string
	Port int

	// Store configuration
	DatabasePath string

	// Media directories served by the dashboard
	UploadsDir string
	FramesDir  string
	ImagesDir  string
	ClipsDir   string

	// Upload limits
	MaxUploadBytes int64

	// External detection process
	DetectorCommand string
	DetectorScript  string
	DetectorTimeout time.Duration

	// Alternate deployment: serve the snapshot from this JSON document
	// instead of the store (the external detector is the writer)
	SnapshotPath string

	// Optional site seed file overriding the built-in seed rows
	SeedFile string
	Seed     *SeedData

	// Optional bearer token guarding the detector-facing ingest endpoints
	IngestAPIKey string

	// Logging configuration
	LogLevel string

	// Metrics configuration
	MetricsEnabled bool
	MetricsHost    string
	MetricsPort    int
}

// SeedData describes the site layout loaded from a YAML seed file
type SeedData struct {
	Cameras   []SeedCamera  `yaml:"cameras"`
	Stations  []SeedStation `yaml:"stations"`
	Personnel []SeedPerson  `yaml:"personnel"`
}

// SeedCamera is one camera row in the seed file
type SeedCamera struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Location    string  `yaml:"location"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	Temperature float64 `yaml:"temperature"`
	FramePath   string  `yaml:"frame_path"`
}

// SeedStation is one station row in the seed file
type SeedStation struct {
	ID             int64   `yaml:"id"`
	Name           string  `yaml:"name"`
	Latitude       float64 `yaml:"latitude"`
	Longitude      float64 `yaml:"longitude"`
	PersonnelCount int     `yaml:"personnel_count"`
}

// SeedPerson is one personnel row in the seed file
type SeedPerson struct {
	Name    string  `yaml:"name"`
	Role    string  `yaml:"role"`
	Type    string  `yaml:"type"`
	Phone   *string `yaml:"phone"`
	Station *int64  `yaml:"station"`
}

// Load reads configuration from the environment, after loading a .env file
// if one is present in the working directory
func Load() (*Config, error) {
	// Best effort: missing .env just means plain environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Host: getEnv("HOST", "localhost"),
		Port: getEnvInt("PORT", 8000),

		DatabasePath: getEnv("DATABASE_PATH", "fire_detection.db"),

		UploadsDir: getEnv("UPLOADS_DIR", "uploads"),
		FramesDir:  getEnv("FRAMES_DIR", "camera_frames"),
		ImagesDir:  getEnv("IMAGES_DIR", "detected_images"),
		ClipsDir:   getEnv("CLIPS_DIR", "detected_clips"),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,

		DetectorCommand: getEnv("DETECTOR_COMMAND", "python3"),
		DetectorScript:  getEnv("DETECTOR_SCRIPT", "detect_api.py"),
		DetectorTimeout: getEnvDuration("DETECTOR_TIMEOUT", 30*time.Second),

		SnapshotPath: os.Getenv("SNAPSHOT_PATH"),

		SeedFile: os.Getenv("SEED_FILE"),

		IngestAPIKey: os.Getenv("INGEST_API_KEY"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsHost:    getEnv("METRICS_HOST", "localhost"),
		MetricsPort:    getEnvInt("METRICS_PORT", 9090),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %d", cfg.Port)
	}

	if cfg.SeedFile != "" {
		seed, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

// LoadSeedFile parses and validates a YAML seed file
func LoadSeedFile(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	return &seed, nil
}

// ToSite converts the seed file rows into store seed rows. A nil receiver
// converts to nil, which the store treats as the built-in defaults.
func (s *SeedData) ToSite() *database.SeedSite {
	if s == nil {
		return nil
	}

	site := &database.SeedSite{}
	for _, cam := range s.Cameras {
		var framePath *string
		if cam.FramePath != "" {
			fp := cam.FramePath
			framePath = &fp
		}
		site.Cameras = append(site.Cameras, &database.Camera{
			ID:          cam.ID,
			Name:        cam.Name,
			Type:        cam.Type,
			Location:    cam.Location,
			Latitude:    cam.Latitude,
			Longitude:   cam.Longitude,
			Temperature: cam.Temperature,
			FramePath:   framePath,
		})
	}
	for _, st := range s.Stations {
		site.Stations = append(site.Stations, &database.Station{
			ID:             st.ID,
			Name:           st.Name,
			Latitude:       st.Latitude,
			Longitude:      st.Longitude,
			PersonnelCount: st.PersonnelCount,
		})
	}
	for _, p := range s.Personnel {
		site.Personnel = append(site.Personnel, &database.Person{
			Name:    p.Name,
			Role:    p.Role,
			Type:    p.Type,
			Phone:   p.Phone,
			Station: p.Station,
		})
	}
	return site
}

// Validate checks the seed file for rows the store could not accept
func (s *SeedData) Validate() error {
	for i, cam := range s.Cameras {
		if cam.ID == 0 {
			return fmt.Errorf("camera %d: id is required", i+1)
		}
		if cam.Name == "" {
			return fmt.Errorf("camera %d: name is required", i+1)
		}
		if cam.Location == "" {
			return fmt.Errorf("camera %d: location is required", i+1)
		}
	}
	for i, st := range s.Stations {
		if st.ID == 0 {
			return fmt.Errorf("station %d: id is required", i+1)
		}
		if st.Name == "" {
			return fmt.Errorf("station %d: name is required", i+1)
		}
	}
	for i, p := range s.Personnel {
		if p.Name == "" {
			return fmt.Errorf("personnel %d: name is required", i+1)
		}
		if p.Role == "" {
			return fmt.Errorf("personnel %d: role is required", i+1)
		}
		if p.Type == "" {
			return fmt.Errorf("personnel %d: type is required", i+1)
		}
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
