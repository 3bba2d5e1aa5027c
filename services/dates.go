package services

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar day in loc, returned as midnight UTC so
// that dates compare and persist the same way regardless of zone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD value; surrounding spaces are ignored.
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid(field, "This field is required.")
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, invalid(field, "Enter a valid date.")
	}
	return d, nil
}

// ParseOptionalDate is ParseDate that maps an empty value to nil.
func ParseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
