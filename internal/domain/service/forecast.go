package service

import (
	"context"
	"time"

	"LiqCast/internal/domain/models"
)

// AccountCategorizer maps an account number to a semantic category with a
// cashflow direction. Total coverage: every account yields a category.
type AccountCategorizer interface {
	Categorize(account int) models.AccountCategory
}

// PatternDetector infers recurring payment patterns from booking history.
// now anchors the trailing detection window; it is never read from a clock.
type PatternDetector interface {
	Detect(bookings []models.Booking, now time.Time) []models.RecurringPattern
}

// VarianceEstimator computes the spread of historical weekly net cashflow,
// used to widen the forecast's uncertainty bands.
type VarianceEstimator interface {
	WeeklyStdDev(bookings []models.Booking) float64
}

// NarrativeEnricher turns a finished forecast into prose via an external
// service. Implementations must honor ctx cancellation; failures are
// non-fatal to the forecast itself.
type NarrativeEnricher interface {
	Narrate(ctx context.Context, result *models.LiquidityForecastResult) (string, error)
}
