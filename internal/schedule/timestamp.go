package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoTimestamp marks a blank or absent timestamp. It is not a parse failure.
	ErrNoTimestamp = errors.New("schedule: no timestamp")
	// ErrMissingOffset marks a timestamp that parsed only as local time.
	ErrMissingOffset = errors.New("schedule: timestamp has no utc offset")
)

// TimestampError describes a timestamp that could not be turned into an instant.
type TimestampError struct {
	Raw string
	Err error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("schedule: parse timestamp %q: %v", e.Raw, e.Err)
}

func (e *TimestampError) Unwrap() error { return e.Err }

var offsetLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04-07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999-07",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp converts an ISO-8601 date-time with an explicit offset to
// Unix epoch seconds. A trailing "Z" counts as "+00:00". Blank input yields
// ErrNoTimestamp; a value without an offset yields a TimestampError wrapping
// ErrMissingOffset instead of being read as UTC.
func ParseTimestamp(raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrNoTimestamp
	}
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}
	var firstErr error
	for _, layout := range offsetLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Unix(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, layout := range localLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return 0, &TimestampError{Raw: raw, Err: ErrMissingOffset}
		}
	}
	return 0, &TimestampError{Raw: raw, Err: firstErr}
}

// FormatTimestamp renders epoch seconds in RFC 3339 for operator messages.
func FormatTimestamp(sec int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(sec, 0).In(loc).Format(time.RFC3339)
}
