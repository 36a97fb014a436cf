package stats

import (
	"math"
	"testing"
	"time"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/categorize"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestPopulationStdDev(t *testing.T) {
	cases := []struct {
		values []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{5}, 0},
		{[]float64{2, 2, 2}, 0},
		{[]float64{1, 3}, 1},
		{[]float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
	}
	for _, tc := range cases {
		got := PopulationStdDev(tc.values)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("PopulationStdDev(%v) = %v, want %v", tc.values, got, tc.want)
		}
	}
}

func TestWeeklyNetSeries(t *testing.T) {
	cat := categorize.New(5000)
	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 1000, Account: 4100},  // week 32 inflow
		{BookedAt: day(2026, time.August, 5), Amount: -400, Account: 6000},  // week 32 outflow
		{BookedAt: day(2026, time.August, 12), Amount: 2000, Account: 4100}, // week 33 inflow
	}

	series := WeeklyNetSeries(bookings, cat)
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	if series[0] != 600 {
		t.Errorf("series[0] = %v, want 600", series[0])
	}
	if series[1] != 2000 {
		t.Errorf("series[1] = %v, want 2000", series[1])
	}
}

func TestWeeklyNetSeriesDirectionFromAccountNotSign(t *testing.T) {
	cat := categorize.New(5000)
	// Expense account booked with a positive amount still nets negative.
	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 500, Account: 6000},
	}
	series := WeeklyNetSeries(bookings, cat)
	if len(series) != 1 || series[0] != -500 {
		t.Errorf("series = %v, want [-500]", series)
	}
}

func TestWeeklyStdDevFallback(t *testing.T) {
	cat := categorize.New(5000)
	est := NewEstimator(cat, 5000)

	if got := est.WeeklyStdDev(nil); got != 5000 {
		t.Errorf("empty history: got %v, want fallback 5000", got)
	}

	// All bookings within a single day: less than one complete week of span.
	short := []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 100, Account: 4100},
		{BookedAt: day(2026, time.August, 3), Amount: 200, Account: 4100},
	}
	if got := est.WeeklyStdDev(short); got != 5000 {
		t.Errorf("short history: got %v, want fallback 5000", got)
	}
}

func TestWeeklyStdDevComputed(t *testing.T) {
	cat := categorize.New(5000)
	est := NewEstimator(cat, 5000)

	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 1000, Account: 4100},
		{BookedAt: day(2026, time.August, 12), Amount: 3000, Account: 4100},
	}
	// Two weekly nets: 1000 and 3000 -> population stddev 1000.
	got := est.WeeklyStdDev(bookings)
	if math.Abs(got-1000) > 1e-9 {
		t.Errorf("got %v, want 1000", got)
	}
}

func TestTrailingWeeklyAverages(t *testing.T) {
	cat := categorize.New(5000)
	now := day(2026, time.August, 28)

	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 10), Amount: 3000, Account: 4100}, // inflow, in window
		{BookedAt: day(2026, time.August, 15), Amount: -900, Account: 6000}, // outflow, in window
		{BookedAt: day(2026, time.June, 1), Amount: 9999, Account: 4100},    // outside window
		{BookedAt: day(2026, time.September, 5), Amount: 7777, Account: 4100}, // after now
	}

	in, out := TrailingWeeklyAverages(bookings, now, cat)
	if math.Abs(in-3000*7.0/30.0) > 1e-9 {
		t.Errorf("inflow = %v, want %v", in, 3000*7.0/30.0)
	}
	if math.Abs(out-900*7.0/30.0) > 1e-9 {
		t.Errorf("outflow = %v, want %v", out, 900*7.0/30.0)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(12.346); got != 12.35 {
		t.Errorf("Round2(12.346) = %v, want 12.35", got)
	}
	if got := Round2(math.Inf(1)); got != 0 {
		t.Errorf("Round2(+Inf) = %v, want 0", got)
	}
	if got := Round2(math.NaN()); got != 0 {
		t.Errorf("Round2(NaN) = %v, want 0", got)
	}
}
