package stats

import (
	"math"
	"sort"
	"time"

	"LiqCast/internal/domain/models"
	domsvc "LiqCast/internal/domain/service"
	"LiqCast/pkg/util"
)

// Estimator computes the spread of historical weekly net cashflow.
// When history spans less than one complete week, or the computation is
// non-finite, a configured fallback magnitude is returned instead.
type Estimator struct {
	categorizer domsvc.AccountCategorizer
	fallback    float64
}

// NewEstimator creates a variance estimator.
func NewEstimator(categorizer domsvc.AccountCategorizer, fallback float64) *Estimator {
	return &Estimator{categorizer: categorizer, fallback: fallback}
}

// WeeklyStdDev buckets bookings by ISO calendar week, nets each week using
// the categorizer's direction, and returns the population standard deviation
// of the resulting series.
func (e *Estimator) WeeklyStdDev(bookings []models.Booking) float64 {
	if len(bookings) == 0 {
		return e.fallback
	}

	earliest, latest := dateSpan(bookings)
	if latest.Sub(earliest) < 7*24*time.Hour {
		return e.fallback
	}

	series := WeeklyNetSeries(bookings, e.categorizer)
	if len(series) < 2 {
		return e.fallback
	}

	sd := PopulationStdDev(series)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		return e.fallback
	}
	return sd
}

// WeeklyNetSeries nets inflow minus outflow per ISO week, ordered by week.
func WeeklyNetSeries(bookings []models.Booking, categorizer domsvc.AccountCategorizer) []float64 {
	nets := make(map[int]float64)
	for _, b := range bookings {
		key := util.ISOWeekKey(b.BookedAt)
		cat := categorizer.Categorize(b.Account)
		if cat.Direction == models.DirectionInflow {
			nets[key] += math.Abs(b.Amount)
		} else {
			nets[key] -= math.Abs(b.Amount)
		}
	}

	keys := make([]int, 0, len(nets))
	for k := range nets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	series := make([]float64, 0, len(keys))
	for _, k := range keys {
		series = append(series, nets[k])
	}
	return series
}

// PopulationStdDev returns the population standard deviation of values.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// TrailingWeeklyAverages derives baseline weekly inflow and outflow from the
// 30 days preceding now, scaled from a 30-day sum to a 7-day average.
func TrailingWeeklyAverages(bookings []models.Booking, now time.Time, categorizer domsvc.AccountCategorizer) (inflow, outflow float64) {
	cutoff := now.AddDate(0, 0, -30)
	var in30, out30 float64
	for _, b := range bookings {
		if b.BookedAt.Before(cutoff) || b.BookedAt.After(now) {
			continue
		}
		cat := categorizer.Categorize(b.Account)
		if cat.Direction == models.DirectionInflow {
			in30 += math.Abs(b.Amount)
		} else {
			out30 += math.Abs(b.Amount)
		}
	}
	return in30 * 7 / 30, out30 * 7 / 30
}

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func dateSpan(bookings []models.Booking) (earliest, latest time.Time) {
	earliest = bookings[0].BookedAt
	latest = bookings[0].BookedAt
	for _, b := range bookings[1:] {
		if b.BookedAt.Before(earliest) {
			earliest = b.BookedAt
		}
		if b.BookedAt.After(latest) {
			latest = b.BookedAt
		}
	}
	return earliest, latest
}

var _ domsvc.VarianceEstimator = (*Estimator)(nil)
