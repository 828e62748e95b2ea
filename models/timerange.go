package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"venue-booking/internal/status"
)

// TimeRange is a half-open [start, end) clock interval within a single day,
// stored as minutes since midnight. Two ranges that merely touch (one ends
// exactly when the other starts) do not overlap.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var minutesPerHour = decimal.NewFromInt(60)

// ParseClock parses a "HH:MM" clock value into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, status.ErrInvalidRange)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NewTimeRange builds a validated range from "HH:MM" start and end values.
// Zero-duration and inverted ranges are rejected with ErrInvalidRange before
// any availability check runs.
func NewTimeRange(start, end string) (TimeRange, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	if endMin <= startMin {
		return TimeRange{}, fmt.Errorf("range %s-%s: %w", start, end, status.ErrInvalidRange)
	}
	return TimeRange{Start: startMin, End: endMin}, nil
}

// Overlaps reports whether the two half-open intervals intersect.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Hours returns the duration as fractional hours.
func (r TimeRange) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(r.End - r.Start)).Div(minutesPerHour)
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// StartClock returns the start as "HH:MM".
func (r TimeRange) StartClock() string { return formatClock(r.Start) }

// EndClock returns the end as "HH:MM".
func (r TimeRange) EndClock() string { return formatClock(r.End) }

func (r TimeRange) String() string {
	return formatClock(r.Start) + "-" + formatClock(r.End)
}

// ValidateDate checks a booking date in "YYYY-MM-DD" form.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("parse date %q: %w", s, status.ErrValidation)
	}
	return nil
}
