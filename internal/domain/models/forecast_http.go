package models

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	StartBalance float64 `json:"start_balance" validate:"required"`
	Threshold    float64 `json:"threshold" default:"50000" validate:"gt=0"`
	Weeks        int     `json:"weeks" default:"13" validate:"gte=1,lte=52"`
	Now          string  `json:"now" validate:"required"` // RFC3339 or unix seconds
	Narrate      bool    `json:"narrate" default:"false"`
}

type BookingsRequest struct {
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}

// ForecastResponse wraps the engine result with optional narrative enrichment.
// Narrative is nil when enrichment is disabled, timed out, or failed; the
// deterministic result is always present.
type ForecastResponse struct {
	Result    *LiquidityForecastResult `json:"result"`
	Narrative *string                  `json:"narrative,omitempty"`
}
