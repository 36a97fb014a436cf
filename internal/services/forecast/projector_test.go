package forecast

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/categorize"
	"LiqCast/internal/services/patterns"
	"LiqCast/internal/services/stats"
)

func newProjector() *Projector {
	cat := categorize.New(5000)
	return NewProjector(
		patterns.NewDetector(cat, patterns.DefaultBands()),
		stats.NewEstimator(cat, 5000),
		cat,
		DefaultRules(),
	)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func sampleBookings() []models.Booking {
	return []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 8000, Account: 4100, Description: "Rechnung 2001", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 10), Amount: 8200, Account: 4100, Description: "Rechnung 2002", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 17), Amount: 7900, Account: 4100, Description: "Rechnung 2003", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 24), Amount: 8100, Account: 4100, Description: "Rechnung 2004", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.July, 26), Amount: -5000, Account: 6020, Description: "Gehalt 07/2026", Counterparty: "M. Weber"},
		{BookedAt: day(2026, time.August, 26), Amount: -5000, Account: 6020, Description: "Gehalt 08/2026", Counterparty: "M. Weber"},
		{BookedAt: day(2026, time.August, 3), Amount: -1800, Account: 6330, Description: "Miete 08/2026", Counterparty: "Hausverwaltung"},
		{BookedAt: day(2026, time.July, 3), Amount: -1800, Account: 6330, Description: "Miete 07/2026", Counterparty: "Hausverwaltung"},
	}
}

func TestForecastChaining(t *testing.T) {
	res, err := newProjector().Forecast(Input{
		Bookings:     sampleBookings(),
		StartBalance: 50000,
		Threshold:    20000,
		Weeks:        13,
		Now:          day(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(res.Weeks) != 13 {
		t.Fatalf("got %d weeks, want 13", len(res.Weeks))
	}
	if res.Weeks[0].OpeningBalance != 50000 {
		t.Errorf("week 0 opening = %v, want 50000", res.Weeks[0].OpeningBalance)
	}
	for i := 1; i < len(res.Weeks); i++ {
		if res.Weeks[i].OpeningBalance != res.Weeks[i-1].ClosingBalance {
			t.Errorf("week %d opening %v != week %d closing %v",
				i, res.Weeks[i].OpeningBalance, i-1, res.Weeks[i-1].ClosingBalance)
		}
	}
}

func TestForecastConfidenceDecay(t *testing.T) {
	res, err := newProjector().Forecast(Input{
		Bookings:     sampleBookings(),
		StartBalance: 50000,
		Weeks:        20,
		Now:          day(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	prev := math.Inf(1)
	for _, w := range res.Weeks {
		if w.Confidence > prev {
			t.Errorf("week %d confidence %v increased from %v", w.Index, w.Confidence, prev)
		}
		if w.Confidence < 0.4 {
			t.Errorf("week %d confidence %v below floor", w.Index, w.Confidence)
		}
		prev = w.Confidence
	}
	if res.Weeks[0].Confidence != 1 {
		t.Errorf("week 0 confidence = %v, want 1", res.Weeks[0].Confidence)
	}
	// Far enough out the floor must bind.
	if last := res.Weeks[19].Confidence; last != 0.4 {
		t.Errorf("week 19 confidence = %v, want floor 0.4", last)
	}
}

func TestForecastBoundsContainClosing(t *testing.T) {
	res, err := newProjector().Forecast(Input{
		Bookings:     sampleBookings(),
		StartBalance: 50000,
		Weeks:        13,
		Now:          day(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	prevWidth := 0.0
	for _, w := range res.Weeks {
		if w.LowerBound > w.ClosingBalance || w.ClosingBalance > w.UpperBound {
			t.Errorf("week %d: closing %v outside [%v, %v]",
				w.Index, w.ClosingBalance, w.LowerBound, w.UpperBound)
		}
		width := w.UpperBound - w.LowerBound
		if width < prevWidth {
			t.Errorf("week %d: band width %v narrower than previous %v", w.Index, width, prevWidth)
		}
		prevWidth = width
	}
}

func TestForecastEmptyHistory(t *testing.T) {
	res, err := newProjector().Forecast(Input{
		Bookings:     nil,
		StartBalance: 100000,
		Threshold:    50000,
		Weeks:        4,
		Now:          day(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(res.Weeks) != 4 {
		t.Fatalf("got %d weeks, want 4", len(res.Weeks))
	}
	for _, w := range res.Weeks {
		if w.ClosingBalance != 100000 {
			t.Errorf("week %d closing = %v, want 100000", w.Index, w.ClosingBalance)
		}
		if w.Inflow != 0 || w.Outflow != 0 {
			t.Errorf("week %d flows = %v/%v, want 0/0", w.Index, w.Inflow, w.Outflow)
		}
	}
	if res.KPIs.MinBalance != 100000 {
		t.Errorf("min balance = %v, want 100000", res.KPIs.MinBalance)
	}
	if len(res.Alerts) != 0 {
		t.Errorf("got %d alerts, want 0", len(res.Alerts))
	}
	if len(res.RecurringPatterns) != 0 {
		t.Errorf("got %d patterns, want 0", len(res.RecurringPatterns))
	}
	if res.KPIs.RunwayWeeks != nil {
		t.Errorf("runway = %v, want unbounded (nil)", *res.KPIs.RunwayWeeks)
	}
	stable := false
	for _, s := range res.Insights {
		if strings.Contains(s, "stabil") {
			stable = true
		}
	}
	if !stable {
		t.Errorf("insights missing stability statement: %v", res.Insights)
	}
}

func TestForecastPayrollOverlay(t *testing.T) {
	now := day(2026, time.August, 28)
	bookings := []models.Booking{
		{BookedAt: day(2026, time.July, 26), Amount: -5000, Account: 6020, Description: "Gehalt 07/2026", Counterparty: "M. Weber"},
		{BookedAt: day(2026, time.August, 26), Amount: -5000, Account: 6020, Description: "Gehalt 08/2026", Counterparty: "M. Weber"},
	}

	res, err := newProjector().Forecast(Input{
		Bookings:     bookings,
		StartBalance: 80000,
		Weeks:        13,
		Now:          now,
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if len(res.RecurringPatterns) != 1 {
		t.Fatalf("got %d patterns, want 1", len(res.RecurringPatterns))
	}
	p := res.RecurringPatterns[0]
	if p.Frequency != models.FrequencyMonthly || p.Category != "Personalkosten" {
		t.Fatalf("pattern = %s/%s, want monthly/Personalkosten", p.Frequency, p.Category)
	}
	if p.Confidence <= 0 {
		t.Fatalf("pattern confidence = %v, want > 0", p.Confidence)
	}

	// Trailing 30 days hold one 5000 payment: weekly baseline outflow.
	base := 5000.0 * 7 / 30
	overlay := p.Amount * p.Confidence * 0.5
	monthly := p.Amount * p.Confidence

	for _, w := range res.Weeks {
		want := base
		startDay := w.StartDate.Day()
		if startDay >= 25 && startDay <= 28 {
			want += overlay
		}
		if w.Index%4 == 0 {
			want += monthly
		}
		if math.Abs(w.Outflow-want) > 0.01 {
			t.Errorf("week %d (start day %d): outflow = %v, want %v", w.Index, startDay, w.Outflow, want)
		}
	}

	// The horizon must contain at least one end-of-month overlay week.
	overlayWeeks := 0
	for _, w := range res.Weeks {
		d := w.StartDate.Day()
		if d >= 25 && d <= 28 {
			overlayWeeks++
		}
	}
	if overlayWeeks == 0 {
		t.Fatal("no week start fell in the payroll window; scenario broken")
	}
}

func TestForecastIdempotent(t *testing.T) {
	in := Input{
		Bookings:     sampleBookings(),
		StartBalance: 50000,
		Threshold:    30000,
		Weeks:        13,
		Now:          day(2026, time.August, 28),
	}
	p := newProjector()
	a, err := p.Forecast(in)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	b, err := p.Forecast(in)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different results")
	}
}

func TestForecastDefaultsAndValidation(t *testing.T) {
	p := newProjector()

	res, err := p.Forecast(Input{StartBalance: 1000, Now: day(2026, time.August, 28)})
	if err != nil {
		t.Fatalf("Forecast with defaults: %v", err)
	}
	if len(res.Weeks) != 13 {
		t.Errorf("default horizon = %d weeks, want 13", len(res.Weeks))
	}
	if res.Threshold != 50000 {
		t.Errorf("default threshold = %v, want 50000", res.Threshold)
	}

	if _, err := p.Forecast(Input{StartBalance: 1000, Weeks: -1, Now: day(2026, time.August, 28)}); err == nil {
		t.Error("negative weeks accepted")
	}
	if _, err := p.Forecast(Input{StartBalance: 1000, Threshold: -5, Now: day(2026, time.August, 28)}); err == nil {
		t.Error("negative threshold accepted")
	}
	if _, err := p.Forecast(Input{StartBalance: 1000, Weeks: 4}); err == nil {
		t.Error("zero reference date accepted")
	}
}

func TestForecastKPIRunway(t *testing.T) {
	// Pure outflow history forces a positive burn rate and a finite runway.
	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 5), Amount: -3000, Account: 5100, Description: "Material 1", Counterparty: "Stahl AG"},
		{BookedAt: day(2026, time.August, 12), Amount: -3000, Account: 5100, Description: "Material 2", Counterparty: "Stahl AG"},
		{BookedAt: day(2026, time.August, 19), Amount: -3000, Account: 5100, Description: "Material 3", Counterparty: "Stahl AG"},
		{BookedAt: day(2026, time.August, 26), Amount: -3000, Account: 5100, Description: "Material 4", Counterparty: "Stahl AG"},
	}
	res, err := newProjector().Forecast(Input{
		Bookings:     bookings,
		StartBalance: 200000,
		Weeks:        13,
		Now:          day(2026, time.August, 28),
	})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if res.KPIs.BurnRate <= 0 {
		t.Fatalf("burn rate = %v, want > 0", res.KPIs.BurnRate)
	}
	if res.KPIs.RunwayWeeks == nil {
		t.Fatal("runway = nil, want finite")
	}
	if *res.KPIs.RunwayWeeks <= 0 {
		t.Errorf("runway = %v, want > 0", *res.KPIs.RunwayWeeks)
	}
	if res.KPIs.TotalInflow != 0 {
		t.Errorf("total inflow = %v, want 0", res.KPIs.TotalInflow)
	}
}
