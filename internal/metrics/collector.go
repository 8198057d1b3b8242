package metrics

import (
	"context"
	"log/slog"
	"time"
)

// DB interface for site state queries
type DB interface {
	ActiveCameraCount() (int, error)
	OnlinePersonnelCount() (int, error)
	ActiveAlertCount() (int, error)
}

// StartSiteStateCollector starts a background goroutine that periodically
// publishes camera/personnel/alert gauges from the store
func StartSiteStateCollector(ctx context.Context, db DB, interval time.Duration) {
	logger := slog.Default()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once immediately
	collectSiteState(db, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Site state collector stopping")
			return
		case <-ticker.C:
			collectSiteState(db, logger)
		}
	}
}

func collectSiteState(db DB, logger *slog.Logger) {
	if n, err := db.ActiveCameraCount(); err != nil {
		logger.Error("Failed to count online cameras", "error", err)
	} else {
		CamerasOnline.Set(float64(n))
	}

	if n, err := db.OnlinePersonnelCount(); err != nil {
		logger.Error("Failed to count online personnel", "error", err)
	} else {
		PersonnelOnline.Set(float64(n))
	}

	if n, err := db.ActiveAlertCount(); err != nil {
		logger.Error("Failed to count active alerts", "error", err)
	} else {
		AlertsActive.Set(float64(n))
	}
}
