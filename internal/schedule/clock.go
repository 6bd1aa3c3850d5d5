// Package schedule implements the scheduling-conflict engine: interval
// arithmetic, conflict and buffer detection, severity classification,
// alternative slot search, suggestion generation and the resolver that
// orchestrates them against a meeting repository.
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// ClockTime is a validated HH:MM time of day, stored as minutes since
// midnight. The zero value is 00:00.
type ClockTime struct {
	minutes int
}

// ParseClock parses a 24-hour HH:MM string. Malformed input (wrong
// shape, non-numeric, hour or minute out of range) is rejected rather
// than wrapped around.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return ClockTime{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return ClockTime{minutes: hh*60 + mm}, nil
}

// ClockFromMinutes builds a ClockTime from minutes since midnight.
// Values outside a single day are rejected.
func ClockFromMinutes(m int) (ClockTime, error) {
	if m < 0 || m >= 24*60 {
		return ClockTime{}, fmt.Errorf("invalid minutes-since-midnight value %d", m)
	}
	return ClockTime{minutes: m}, nil
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return c.minutes }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}

// Before reports whether c is strictly earlier than other.
func (c ClockTime) Before(other ClockTime) bool { return c.minutes < other.minutes }

// Interval is a half-open [start,end) window within a single day.
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// NewInterval builds an interval from HH:MM strings and enforces
// start < end.
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if !s.Before(e) {
		return Interval{}, fmt.Errorf("invalid interval %s-%s: start must be before end", start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Duration returns the interval length in minutes.
func (iv Interval) Duration() int { return iv.End.minutes - iv.Start.minutes }

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.minutes < other.End.minutes && other.Start.minutes < iv.End.minutes
}

// OverlapMinutes returns the length of the intersection, clamped to
// zero for disjoint intervals.
func (iv Interval) OverlapMinutes(other Interval) int {
	start := iv.Start.minutes
	if other.Start.minutes > start {
		start = other.Start.minutes
	}
	end := iv.End.minutes
	if other.End.minutes < end {
		end = other.End.minutes
	}
	if end <= start {
		return 0
	}
	return end - start
}

// WithinBuffer reports a buffer violation: the intervals do not overlap
// but one starts less than buffer minutes after the other ends. Overlap
// and buffer violation are mutually exclusive classifications, so
// overlapping intervals always return false.
func (iv Interval) WithinBuffer(other Interval, buffer int) bool {
	if iv.Overlaps(other) {
		return false
	}
	if gap := other.Start.minutes - iv.End.minutes; gap >= 0 && gap < buffer {
		return true
	}
	if gap := iv.Start.minutes - other.End.minutes; gap >= 0 && gap < buffer {
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a validated YYYY-MM-DD calendar date.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// AddDays returns the date n calendar days later, carrying months and
// years.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) String() string { return d.t.Format(dateLayout) }
