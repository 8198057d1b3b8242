package database

import (
	"testing"
	"time"
)

func TestIntervalStartAt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-03-01T10:00:00", "2025-03-01T10:00:00"},
		{"2025-03-01T10:14:59", "2025-03-01T10:00:00"},
		{"2025-03-01T10:29:59", "2025-03-01T10:00:00"},
		{"2025-03-01T10:30:00", "2025-03-01T10:30:00"},
		{"2025-03-01T10:45:12", "2025-03-01T10:30:00"},
		{"2025-03-01T23:59:59", "2025-03-01T23:30:00"},
	}

	for _, c := range cases {
		parsed, err := time.Parse(intervalLayout, c.in)
		if err != nil {
			t.Fatalf("Failed to parse %s: %v", c.in, err)
		}
		if got := intervalStartAt(parsed); got != c.want {
			t.Errorf("Expected bucket %s for %s, got %s", c.want, c.in, got)
		}
	}
}
