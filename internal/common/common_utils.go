package common

import (
	"fmt"
	"html"
	"strings"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// SanitizeInput strips markup from free-text form fields before persisting.
func SanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.EscapeString(b.String())
}

// SanitizeInputPtr applies SanitizeInput to an optional field.
func SanitizeInputPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeInput(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// ParseDate parses a YYYY-MM-DD form value.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// EndOfDay pins a date to 23:59:59, matching how voting deadlines are stored.
func EndOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}
