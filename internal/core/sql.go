package core

import (
	"encoding/json"
	"time"
)

// timeToSQL converts a time struct to a string representation compatible with SQLite.
func timeToSQL(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	dateStr := date.Format(time.RFC3339Nano)
	return dateStr
}

// timeFromSQL parses a string representation of a time to a time struct.
func timeFromSQL(dateStr string) time.Time {
	date, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return time.Time{}
	}
	return date
}

// jsonToSQL serializes a value to the JSON representation stored in text columns.
func jsonToSQL(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		// Only used on plain slices and structs
		panic(err)
	}
	return string(data)
}
