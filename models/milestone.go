package models

import (
	"strconv"
	"time"
)

// Milestone types; WORK is the form default.
var MilestoneTypes = []string{"EDUCATION", "WORK", "PROJECT", "ACHIEVEMENT", "OTHER"}

// Milestone is a timeline entry.
type Milestone struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	EndDate     *string  `json:"endDate"`
	Company     *string  `json:"company"`
	Location    *string  `json:"location"`
	Tags        []string `json:"tags"`
}

// MilestonePayload is the body of POST /timeline and PUT /timeline/{id}.
type MilestonePayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	EndDate     *string  `json:"endDate"`
	Company     *string  `json:"company"`
	Location    *string  `json:"location"`
	Tags        []string `json:"tags"`
}

// Year returns the calendar year of Date, or 0 when it cannot be parsed.
func (m Milestone) Year() int {
	if t, ok := ParseDate(m.Date); ok {
		return t.Year()
	}
	if len(m.Date) >= 4 {
		if y, err := strconv.Atoi(m.Date[:4]); err == nil {
			return y
		}
	}
	return 0
}

// ParseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
