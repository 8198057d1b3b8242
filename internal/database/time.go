package database

import "time"

const (
	// timestampLayout is the format for detection/alert/activity timestamps,
	// matching SQLite's CURRENT_TIMESTAMP output
	timestampLayout = "2006-01-02 15:04:05"

	// intervalLayout is the format for detection_history interval keys,
	// which the dashboard chart matches on
	intervalLayout = "2006-01-02T15:04:05"

	dateLayout = "2006-01-02"
)

// nowTimestamp returns the current UTC time in the store timestamp format
func nowTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

// today returns the current local calendar date
func today() string {
	return time.Now().Format(dateLayout)
}

// intervalStartAt rounds a time down to the start of its 30-minute bucket
func intervalStartAt(t time.Time) string {
	rounded := t.Truncate(time.Minute)
	rounded = rounded.Add(-time.Duration(rounded.Minute()%30) * time.Minute)
	return rounded.Format(intervalLayout)
}
