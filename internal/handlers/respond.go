package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// All API responses use an HTTP 200 envelope with a success flag in the
// body; failures carry a human-readable error message. The only non-200
// response is 405 for method misuse.

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeSuccess writes a success envelope with extra fields merged in
func writeSuccess(w http.ResponseWriter, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, body)
}

// writeError writes a failure envelope with the given message
func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// decodeBody decodes a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// parseIDParam parses an optional numeric query parameter; zero means unset
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		writeError(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// requirePost rejects non-POST requests with 405
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
