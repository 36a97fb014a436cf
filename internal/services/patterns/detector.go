package patterns

import (
	"math"
	"sort"
	"time"

	"LiqCast/internal/domain/models"
	domsvc "LiqCast/internal/domain/service"
	"LiqCast/pkg/util"
)

// Bands maps annualized occurrence rates to frequency classes. Rates outside
// every band discard the pattern, which keeps irregular data from producing
// false positives.
type Bands struct {
	WeeklyMin    float64
	BiweeklyMin  float64
	MonthlyMin   float64
	MonthlyMax   float64
	QuarterlyMin float64
	QuarterlyMax float64
}

// DefaultBands returns the standard rate bands.
func DefaultBands() Bands {
	return Bands{
		WeeklyMin:    40,
		BiweeklyMin:  20,
		MonthlyMin:   10,
		MonthlyMax:   14,
		QuarterlyMin: 3,
		QuarterlyMax: 5,
	}
}

// Classify maps an annualized rate to a frequency. ok is false when the rate
// lands between bands.
func (b Bands) Classify(rate float64) (models.Frequency, bool) {
	switch {
	case rate >= b.WeeklyMin:
		return models.FrequencyWeekly, true
	case rate >= b.BiweeklyMin:
		return models.FrequencyBiweekly, true
	case rate >= b.MonthlyMin && rate < b.MonthlyMax:
		return models.FrequencyMonthly, true
	case rate >= b.QuarterlyMin && rate < b.QuarterlyMax:
		return models.FrequencyQuarterly, true
	default:
		return "", false
	}
}

// Detector infers recurring payment patterns from booking history.
type Detector struct {
	categorizer domsvc.AccountCategorizer
	bands       Bands
}

// NewDetector creates a pattern detector.
func NewDetector(categorizer domsvc.AccountCategorizer, bands Bands) *Detector {
	return &Detector{categorizer: categorizer, bands: bands}
}

type group struct {
	description  string
	counterparty string
	bookings     []models.Booking
}

// Detect groups similar bookings and emits one pattern per group whose
// trailing occurrence rate lands in a frequency band. now anchors the
// trailing window and is never read from a clock.
func (d *Detector) Detect(bookings []models.Booking, now time.Time) []models.RecurringPattern {
	if len(bookings) == 0 {
		return []models.RecurringPattern{}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, b := range bookings {
		cp := b.Counterparty
		if cp == "" {
			cp = "unknown"
		}
		key := util.NormalizeText(b.Description) + "|" + cp
		g, ok := groups[key]
		if !ok {
			g = &group{description: b.Description, counterparty: cp}
			groups[key] = g
			order = append(order, key)
		}
		g.bookings = append(g.bookings, b)
	}

	cutoff := now.AddDate(0, 0, -30)
	result := make([]models.RecurringPattern, 0)
	for _, key := range order {
		g := groups[key]
		if len(g.bookings) < 2 {
			continue
		}

		var sumAbs float64
		var daySum int
		recent := 0
		for _, b := range g.bookings {
			sumAbs += math.Abs(b.Amount)
			daySum += b.BookedAt.Day()
			if !b.BookedAt.Before(cutoff) && !b.BookedAt.After(now) {
				recent++
			}
		}

		rate := float64(recent) * 365.0 / 30.0
		freq, ok := d.bands.Classify(rate)
		if !ok {
			continue
		}

		confidence := rate / freq.NominalRate()
		if confidence > 1 {
			confidence = 1
		}

		// Mixed-account clusters keep the first booking's category.
		cat := d.categorizer.Categorize(g.bookings[0].Account)

		result = append(result, models.RecurringPattern{
			Description:  g.description,
			Counterparty: g.counterparty,
			Amount:       sumAbs / float64(len(g.bookings)),
			Frequency:    freq,
			DayOfMonth:   int(math.Round(float64(daySum) / float64(len(g.bookings)))),
			Confidence:   confidence,
			Occurrences:  len(g.bookings),
			Category:     cat.Name,
			Direction:    cat.Direction,
			AccountRange: cat.Range,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Occurrences > result[j].Occurrences
	})
	return result
}

var _ domsvc.PatternDetector = (*Detector)(nil)
