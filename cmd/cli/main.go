package main

import (
	"fmt"
	"log/slog"
	"os"

	"firewatch/internal/config"
	"firewatch/internal/database"
	"firewatch/internal/worker"
)

func main() {
	// Disable structured logging for CLI
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors
	})))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "init":
		handleInit(db)
	case "seed":
		handleSeed(db, os.Args[2:])
	case "stats":
		handleStats(db)
	case "reset-stats":
		handleResetStats(db)
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`firewatch CLI - Store Management

Usage:
  cli <command> [options]

Commands:
  init               Create the schema and insert default seed rows
  seed <file.yaml>   Create the schema and seed from a YAML site file
  stats              Print today's detection statistics
  reset-stats        Start a fresh stats row for today
  help               Show this help message

Examples:
  cli init
  cli seed site.yaml
  cli stats

Environment Variables:
  DATABASE_PATH      - SQLite database file (default: fire_detection.db)`)
}

func handleInit(db *database.DB) {
	if err := db.Seed(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to seed database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database initialized successfully!")
}

func handleSeed(db *database.DB, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: seed requires a YAML file path")
		os.Exit(1)
	}

	seed, err := config.LoadSeedFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := db.Seed(seed.ToSite()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to seed database: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Database seeded from %s\n", args[0])
}

func handleStats(db *database.DB) {
	stats, err := db.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to get stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Statistics for %s\n\n", stats.Date)
	fmt.Printf("  Detections today:   %d\n", stats.DetectionsToday)
	fmt.Printf("  Fire today:         %d\n", stats.FireToday)
	fmt.Printf("  Smoke today:        %d\n", stats.SmokeToday)
	fmt.Printf("  Avg response time:  %.1f min\n", stats.AvgResponseTime)
	fmt.Printf("  Cameras online:     %d\n", stats.ActiveCameras)
	fmt.Printf("  Personnel online:   %d\n", stats.PersonnelOnline)
}

func handleResetStats(db *database.DB) {
	if err := worker.NewWorker(db).RunStatsRollover(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to reset stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Daily stats reset.")
}
