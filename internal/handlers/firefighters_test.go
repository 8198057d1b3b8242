package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFirefighterAddAndList(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	body := `{"name": "FF Torres", "phone": "+63-917-333-0001", "station": 2}`
	req := httptest.NewRequest(http.MethodPost, "/?firefighter=add", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}
	if response["id"] == nil {
		t.Fatal("Expected id in add response")
	}

	req = httptest.NewRequest(http.MethodGet, "/?firefighter=list", nil)
	w = httptest.NewRecorder()
	handler.Handle(w, req)

	response = decodeResponse(t, w)
	firefighters, ok := response["firefighters"].([]interface{})
	if !ok {
		t.Fatalf("Expected firefighters array, got %v", response)
	}
	if len(firefighters) != 1 {
		t.Fatalf("Expected 1 firefighter, got %d", len(firefighters))
	}
	record := firefighters[0].(map[string]interface{})
	if record["name"] != "FF Torres" {
		t.Errorf("Expected name 'FF Torres', got %v", record["name"])
	}
}

func TestFirefighterAddDefaultsStation(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	body := `{"name": "FF Torres", "phone": "+63-917-333-0001"}`
	req := httptest.NewRequest(http.MethodPost, "/?firefighter=add", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if response := decodeResponse(t, w); response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}

	firefighters, err := db.ListFirefighters()
	if err != nil {
		t.Fatalf("Failed to list firefighters: %v", err)
	}
	if firefighters[0].Station != 1 {
		t.Errorf("Expected default station 1, got %d", firefighters[0].Station)
	}
}

func TestFirefighterAddMissingFields(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	cases := []struct {
		body string
		want string
	}{
		{`{"phone": "+63-917-333-0001"}`, "name is required"},
		{`{"name": "FF Torres"}`, "phone is required"},
		{`not json`, "invalid request body"},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/?firefighter=add", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		handler.Handle(w, req)

		response := decodeResponse(t, w)
		if response["success"] != false {
			t.Errorf("Expected failure for body %q", c.body)
		}
		if response["error"] != c.want {
			t.Errorf("Expected error %q, got %v", c.want, response["error"])
		}
	}
}

func TestFirefighterAddRequiresPost(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/?firefighter=add", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestFirefighterUpdate(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	id, err := db.CreateFirefighter("FF Torres", "+63-917-333-0001", 1)
	if err != nil {
		t.Fatalf("Failed to create firefighter: %v", err)
	}

	body := `{"id": ` + itoa(id) + `, "name": "FF Torres", "phone": "+63-917-333-0009", "station": 2}`
	req := httptest.NewRequest(http.MethodPost, "/?firefighter=update", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if response := decodeResponse(t, w); response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}

	firefighters, err := db.ListFirefighters()
	if err != nil {
		t.Fatalf("Failed to list firefighters: %v", err)
	}
	if firefighters[0].Phone != "+63-917-333-0009" {
		t.Errorf("Expected updated phone, got %s", firefighters[0].Phone)
	}
	if firefighters[0].Station != 2 {
		t.Errorf("Expected station 2, got %d", firefighters[0].Station)
	}
}

func TestFirefighterUpdateNotFound(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	body := `{"id": 99, "name": "FF Nobody", "phone": "+63-917-000-0000", "station": 1}`
	req := httptest.NewRequest(http.MethodPost, "/?firefighter=update", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "firefighter not found" {
		t.Errorf("Expected 'firefighter not found', got %v", response["error"])
	}
}

func TestFirefighterDelete(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	id, err := db.CreateFirefighter("FF Torres", "+63-917-333-0001", 1)
	if err != nil {
		t.Fatalf("Failed to create firefighter: %v", err)
	}

	body := `{"id": ` + itoa(id) + `}`
	req := httptest.NewRequest(http.MethodPost, "/?firefighter=delete", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if response := decodeResponse(t, w); response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}

	firefighters, err := db.ListFirefighters()
	if err != nil {
		t.Fatalf("Failed to list firefighters: %v", err)
	}
	if len(firefighters) != 0 {
		t.Errorf("Expected 0 firefighters after delete, got %d", len(firefighters))
	}
}

func TestFirefighterDeleteNotFound(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/?firefighter=delete", strings.NewReader(`{"id": 99}`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "firefighter not found" {
		t.Errorf("Expected 'firefighter not found', got %v", response["error"])
	}
}

func TestUnknownFirefighterAction(t *testing.T) {
	db := setupTestStore(t)
	handler := NewFirefighterHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/?firefighter=bogus", nil)
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != false {
		t.Error("Expected failure for unknown action")
	}
}
