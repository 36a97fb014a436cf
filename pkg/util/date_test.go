package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2026-08-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2026-08-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 10 {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2026, 8, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		// Wednesday
		{time.Date(2026, 8, 26, 15, 4, 5, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		// Monday stays put
		{time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the preceding Monday
		{time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := MondayOf(c.in); !got.Equal(c.want) {
			t.Fatalf("MondayOf(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWeekRangeContiguous(t *testing.T) {
	ref := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	prevEnd := time.Time{}
	for i := 0; i < 5; i++ {
		start, end := WeekRange(ref, i)
		if start.Weekday() != time.Monday {
			t.Fatalf("week %d start %v not Monday", i, start)
		}
		if end.Sub(start) != 6*24*time.Hour {
			t.Fatalf("week %d spans %v", i, end.Sub(start))
		}
		if i > 0 && !start.Equal(prevEnd.AddDate(0, 0, 1)) {
			t.Fatalf("week %d not contiguous: start %v after end %v", i, start, prevEnd)
		}
		prevEnd = end
	}
}

func TestISOWeekLabel(t *testing.T) {
	// 2026-01-01 falls into ISO week 2026-W01
	if got := ISOWeekLabel(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); got != "2026-W01" {
		t.Fatalf("got %s", got)
	}
}

func TestDayOfMonthInRange(t *testing.T) {
	start := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6) // Aug 24..30
	if !DayOfMonthInRange(start, end, 26) {
		t.Fatalf("26 should be in range")
	}
	if DayOfMonthInRange(start, end, 31) {
		t.Fatalf("31 should not be in range")
	}
	// range spanning a month boundary covers days of both months
	start = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 0, 6)
	if !DayOfMonthInRange(start, end, 1) {
		t.Fatalf("1 should be in range across month boundary")
	}
}
