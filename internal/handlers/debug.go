package handlers

import (
	"log/slog"
	"net/http"
	"os"

	"firewatch/internal/config"
	"firewatch/internal/database"
)

// DebugHandler serves store diagnostics: path, writability, row counts
type DebugHandler struct {
	db     *database.DB
	config *config.Config
	logger *slog.Logger
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(db *database.DB, cfg *config.Config) *DebugHandler {
	return &DebugHandler{
		db:     db,
		config: cfg,
		logger: slog.Default(),
	}
}

// HandleDebug handles GET ?debug=1
func (h *DebugHandler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writable := true
	if f, err := os.OpenFile(h.config.DatabasePath, os.O_WRONLY, 0); err != nil {
		writable = false
	} else {
		f.Close()
	}

	counts, err := h.db.TableCounts()
	if err != nil {
		h.logger.Error("Failed to count tables", "error", err)
		writeError(w, "failed to read table counts")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"database_path":     h.config.DatabasePath,
		"database_writable": writable,
		"database_healthy":  h.db.Health() == nil,
		"row_counts":        counts,
	})
}
