package forecast

// Rules carries the tunable constants of the projection. Defaults mirror
// production behavior; tests substitute their own values.
type Rules struct {
	DefaultThreshold float64
	DefaultWeeks     int
	LargeDrop        float64 // net cashflow below -LargeDrop triggers an info alert

	// Calendar overlay windows, inclusive day-of-month bounds on week start.
	PayrollWindowStart int
	PayrollWindowEnd   int
	RentWindowStart    int
	RentWindowEnd      int
	OverlayFactor      float64

	PayrollCategory string
	RentCategory    string
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		DefaultThreshold:   50000,
		DefaultWeeks:       13,
		LargeDrop:          25000,
		PayrollWindowStart: 25,
		PayrollWindowEnd:   28,
		RentWindowStart:    1,
		RentWindowEnd:      5,
		OverlayFactor:      0.5,
		PayrollCategory:    "Personalkosten",
		RentCategory:       "Raumkosten",
	}
}
