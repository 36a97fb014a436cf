package models

import "time"

// Frequency classifies how often a recurring pattern repeats.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// NominalRate returns the expected occurrences per year for a frequency.
func (f Frequency) NominalRate() float64 {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 26
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	default:
		return 0
	}
}

// RecurringPattern is a cluster of similar historical bookings inferred to
// repeat on a regular cadence. Recomputed on every run, never persisted.
type RecurringPattern struct {
	Description  string    `json:"description"`
	Counterparty string    `json:"counterparty,omitempty"`
	Amount       float64   `json:"amount"` // average absolute amount
	Frequency    Frequency `json:"frequency"`
	DayOfMonth   int       `json:"day_of_month"`
	Confidence   float64   `json:"confidence"` // in [0,1]
	Occurrences  int       `json:"occurrences"`
	Category     string    `json:"category"`
	Direction    Direction `json:"direction"`
	AccountRange string    `json:"account_range"`
}

// CashflowCategory is one category's contribution within a single week.
type CashflowCategory struct {
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	Direction  Direction `json:"direction"`
	Recurring  bool      `json:"recurring"`
	Confidence float64   `json:"confidence"`
}

// LiquidityWeek is one projected week of the forecast horizon.
// Weeks chain: week[i].OpeningBalance == week[i-1].ClosingBalance.
type LiquidityWeek struct {
	Index          int                `json:"index"`
	CalendarWeek   string             `json:"calendar_week"` // e.g. "2026-W35"
	StartDate      time.Time          `json:"start_date"`    // Monday
	EndDate        time.Time          `json:"end_date"`      // Sunday
	OpeningBalance float64            `json:"opening_balance"`
	Inflow         float64            `json:"inflow"`
	Outflow        float64            `json:"outflow"`
	NetCashflow    float64            `json:"net_cashflow"`
	ClosingBalance float64            `json:"closing_balance"`
	Confidence     float64            `json:"confidence"`
	LowerBound     float64            `json:"lower_bound"`
	UpperBound     float64            `json:"upper_bound"`
	Categories     []CashflowCategory `json:"categories"`
}

// AlertSeverity is the categorical urgency of a liquidity alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// LiquidityAlert flags a projected week that crossed a threshold rule.
type LiquidityAlert struct {
	Week             int           `json:"week"`
	CalendarWeek     string        `json:"calendar_week"`
	Severity         AlertSeverity `json:"severity"`
	Message          string        `json:"message"`
	ProjectedBalance float64       `json:"projected_balance"`
}

// CategoryBreakdownItem summarizes one category across the whole horizon.
// Percentage is computed against the total of the item's own direction.
type CategoryBreakdownItem struct {
	Name          string    `json:"name"`
	Total         float64   `json:"total"`
	Direction     Direction `json:"direction"`
	WeeklyAverage float64   `json:"weekly_average"`
	Percentage    float64   `json:"percentage"`
}

// ForecastKPIs aggregates horizon-level key figures.
// RunwayWeeks is nil when the burn rate is non-positive, i.e. no depletion
// is projected; callers must special-case nil before formatting.
type ForecastKPIs struct {
	TotalInflow     float64  `json:"total_inflow"`
	TotalOutflow    float64  `json:"total_outflow"`
	MinBalance      float64  `json:"min_balance"`
	MinBalanceWeek  string   `json:"min_balance_week"`
	BurnRate        float64  `json:"burn_rate"`
	RunwayWeeks     *float64 `json:"runway_weeks,omitempty"`
	EndBalance      float64  `json:"end_balance"`
	AvgWeeklyInflow float64  `json:"avg_weekly_inflow"`
}

// LiquidityForecastResult is the engine's top-level output.
type LiquidityForecastResult struct {
	GeneratedFor      time.Time               `json:"generated_for"`
	StartBalance      float64                 `json:"start_balance"`
	Threshold         float64                 `json:"threshold"`
	Weeks             []LiquidityWeek         `json:"weeks"`
	Alerts            []LiquidityAlert        `json:"alerts"`
	KPIs              ForecastKPIs            `json:"kpis"`
	Insights          []string                `json:"insights"`
	RecurringPatterns []RecurringPattern      `json:"recurring_patterns"`
	CategoryBreakdown []CategoryBreakdownItem `json:"category_breakdown"`
}
