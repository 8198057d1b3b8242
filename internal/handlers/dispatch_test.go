package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firewatch/internal/config"
	"firewatch/internal/database"
)

func setupDispatchTest(t *testing.T) (*DispatchHandler, *database.DB) {
	t.Helper()

	db := setupTestStore(t)
	for _, name := range []string{"FF Cruz", "FF Reyes"} {
		if _, err := db.CreateFirefighter(name, "+63-917-000-0001", 1); err != nil {
			t.Fatalf("Failed to create firefighter: %v", err)
		}
	}

	return NewDispatchHandler(db, &config.Config{}), db
}

func TestHandleDispatchBroadcast(t *testing.T) {
	handler, db := setupDispatchTest(t)

	body := `{"station_id": 1, "alert_type": "fire", "location": "Building A - Warehouse", "confidence": 0.92}`
	req := httptest.NewRequest(http.MethodPost, "/?dispatch=broadcast", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}
	ids, ok := response["dispatch_ids"].([]interface{})
	if !ok {
		t.Fatalf("Expected dispatch_ids array, got %v", response)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 dispatch ids, got %d", len(ids))
	}

	pending, err := db.ListPendingDispatches(0, 1)
	if err != nil {
		t.Fatalf("Failed to list pending dispatches: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("Expected 2 pending dispatches, got %d", len(pending))
	}
}

func TestHandleDispatchBroadcastValidation(t *testing.T) {
	handler, _ := setupDispatchTest(t)

	cases := []struct {
		body string
		want string
	}{
		{`{"alert_type": "fire"}`, "station_id is required"},
		{`{"station_id": 1}`, "alert_type is required"},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/?dispatch=broadcast", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		handler.Handle(w, req)

		response := decodeResponse(t, w)
		if response["error"] != c.want {
			t.Errorf("Expected error %q, got %v", c.want, response["error"])
		}
	}
}

func TestHandleDispatchPending(t *testing.T) {
	handler, db := setupDispatchTest(t)

	if _, err := db.BroadcastAlertToStation(1, 0, 0, "fire", "Building A", "", 0.9); err != nil {
		t.Fatalf("Failed to broadcast alert: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?dispatch=pending&station_id=1", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}
	alerts, ok := response["alerts"].([]interface{})
	if !ok {
		t.Fatalf("Expected alerts array, got %v", response)
	}
	if len(alerts) != 2 {
		t.Errorf("Expected 2 pending alerts, got %d", len(alerts))
	}
}

func TestHandleDispatchPendingEmpty(t *testing.T) {
	handler, _ := setupDispatchTest(t)

	req := httptest.NewRequest(http.MethodGet, "/?dispatch=pending&station_id=2", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `"alerts":[]`) {
		t.Errorf("Expected empty alerts array, got %s", body)
	}
}

func TestHandleDispatchRespond(t *testing.T) {
	handler, db := setupDispatchTest(t)

	dispatchIDs, err := db.BroadcastAlertToStation(1, 0, 0, "fire", "Building A", "", 0.9)
	if err != nil {
		t.Fatalf("Failed to broadcast alert: %v", err)
	}

	body := `{"id": ` + itoa(dispatchIDs[0]) + `, "response_type": "responded"}`
	req := httptest.NewRequest(http.MethodPost, "/?dispatch=respond", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if response := decodeResponse(t, w); response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}

	history, err := db.ListDispatchHistory(0, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list dispatch history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 dispatch in history, got %d", len(history))
	}
	if history[0].Status != "responded" {
		t.Errorf("Expected status responded, got %s", history[0].Status)
	}
}

func TestHandleDispatchRespondValidation(t *testing.T) {
	handler, _ := setupDispatchTest(t)

	cases := []struct {
		body string
		want string
	}{
		{`{"response_type": "responded"}`, "id is required"},
		{`{"id": 1, "response_type": "ignored"}`, "response_type must be responded or acknowledged"},
		{`{"id": 99, "response_type": "responded"}`, "dispatch not found"},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/?dispatch=respond", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		handler.Handle(w, req)

		response := decodeResponse(t, w)
		if response["error"] != c.want {
			t.Errorf("Expected error %q for body %q, got %v", c.want, c.body, response["error"])
		}
	}
}

func TestHandleDispatchStats(t *testing.T) {
	handler, db := setupDispatchTest(t)

	dispatchIDs, err := db.BroadcastAlertToStation(1, 0, 0, "fire", "Building A", "", 0.9)
	if err != nil {
		t.Fatalf("Failed to broadcast alert: %v", err)
	}
	if err := db.RespondToDispatch(dispatchIDs[0], "responded"); err != nil {
		t.Fatalf("Failed to respond to dispatch: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?dispatch=stats&station_id=1", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}
	stats, ok := response["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected stats object, got %v", response)
	}
	if stats["total_responded"] != float64(1) {
		t.Errorf("Expected 1 responded, got %v", stats["total_responded"])
	}
}

func TestHandleDispatchStatsRequiresFilter(t *testing.T) {
	handler, _ := setupDispatchTest(t)

	req := httptest.NewRequest(http.MethodGet, "/?dispatch=stats", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "firefighter_id or station_id is required" {
		t.Errorf("Expected filter error, got %v", response["error"])
	}
}

func TestHandleDispatchInvalidFilter(t *testing.T) {
	handler, _ := setupDispatchTest(t)

	req := httptest.NewRequest(http.MethodGet, "/?dispatch=pending&firefighter_id=abc", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "invalid firefighter_id" {
		t.Errorf("Expected 'invalid firefighter_id', got %v", response["error"])
	}
}
