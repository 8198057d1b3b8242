package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPersonnelAddAndList(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	body := `{"name": "Op Lee", "role": "Control Room Operator", "type": "operator"}`
	req := httptest.NewRequest(http.MethodPost, "/?personnel=add", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}
	if response["id"] == nil {
		t.Fatal("Expected id in add response")
	}

	req = httptest.NewRequest(http.MethodGet, "/?personnel=list", nil)
	w = httptest.NewRecorder()
	handler.Handle(w, req)

	response = decodeResponse(t, w)
	personnel, ok := response["personnel"].([]interface{})
	if !ok {
		t.Fatalf("Expected personnel array, got %v", response)
	}
	// 12 seeded plus the new operator
	if len(personnel) != 13 {
		t.Errorf("Expected 13 personnel, got %d", len(personnel))
	}
}

func TestPersonnelAddRejectsUnknownType(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	body := `{"name": "Crew Smith", "role": "Visitor", "type": "guest"}`
	req := httptest.NewRequest(http.MethodPost, "/?personnel=add", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["success"] != false {
		t.Fatal("Expected failure for unknown personnel type")
	}
	if response["error"] != "invalid personnel type: guest" {
		t.Errorf("Expected type validation error, got %v", response["error"])
	}
}

func TestPersonnelAddMissingFields(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	cases := []struct {
		body string
		want string
	}{
		{`{"role": "Operator", "type": "operator"}`, "name is required"},
		{`{"name": "Op Lee", "type": "operator"}`, "role is required"},
		{`{"name": "Op Lee", "role": "Operator"}`, "type is required"},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/?personnel=add", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		handler.Handle(w, req)

		response := decodeResponse(t, w)
		if response["error"] != c.want {
			t.Errorf("Expected error %q, got %v", c.want, response["error"])
		}
	}
}

func TestPersonnelUpdate(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	personnel, err := db.ListPersonnel()
	if err != nil {
		t.Fatalf("Failed to list personnel: %v", err)
	}
	target := personnel[0]

	body := `{"id": ` + itoa(target.ID) + `, "name": "` + target.Name + `", "role": "` + target.Role + `", "type": "` + target.Type + `", "status": "offline"}`
	req := httptest.NewRequest(http.MethodPost, "/?personnel=update", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	if response := decodeResponse(t, w); response["success"] != true {
		t.Fatalf("Expected success, got %v", response)
	}

	count, err := db.OnlinePersonnelCount()
	if err != nil {
		t.Fatalf("Failed to count online personnel: %v", err)
	}
	if count != 11 {
		t.Errorf("Expected 11 online personnel, got %d", count)
	}
}

func TestPersonnelUpdateNotFound(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	body := `{"id": 999, "name": "Nobody", "role": "None", "type": "admin"}`
	req := httptest.NewRequest(http.MethodPost, "/?personnel=update", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "personnel not found" {
		t.Errorf("Expected 'personnel not found', got %v", response["error"])
	}
}

func TestPersonnelDeleteNotFound(t *testing.T) {
	db := setupTestStore(t)
	handler := NewPersonnelHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/?personnel=delete", strings.NewReader(`{"id": 999}`))
	w := httptest.NewRecorder()

	handler.Handle(w, req)

	response := decodeResponse(t, w)
	if response["error"] != "personnel not found" {
		t.Errorf("Expected 'personnel not found', got %v", response["error"])
	}
}
