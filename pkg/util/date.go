package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// MondayOf returns the Monday 00:00 of the week containing t, keeping t's location.
func MondayOf(t time.Time) time.Time {
	day := truncateToDay(t)
	wd := int(day.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// WeekRange returns the Monday-aligned [start, end] day range of the week
// offset whole weeks from the reference date. End is the Sunday.
func WeekRange(ref time.Time, offsetWeeks int) (time.Time, time.Time) {
	start := MondayOf(ref).AddDate(0, 0, 7*offsetWeeks)
	return start, start.AddDate(0, 0, 6)
}

// ISOWeekLabel formats t's ISO calendar week, e.g. "2026-W35".
func ISOWeekLabel(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}

// ISOWeekKey returns a sortable ISO year*100+week bucket key.
func ISOWeekKey(t time.Time) int {
	y, w := t.ISOWeek()
	return y*100 + w
}

// DayOfMonthInRange reports whether any calendar date in [start, end]
// has the given day of month.
func DayOfMonthInRange(start, end time.Time, day int) bool {
	if day < 1 || day > 31 {
		return false
	}
	for d := truncateToDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Day() == day {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
