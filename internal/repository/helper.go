package repository

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors validation.ParseTime; both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// formatTimestamp renders t for TEXT timestamp columns.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatDate renders the UTC calendar day of t for TEXT date columns.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
