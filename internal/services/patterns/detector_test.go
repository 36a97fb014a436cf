package patterns

import (
	"testing"
	"time"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/categorize"
)

func newDetector() *Detector {
	return NewDetector(categorize.New(5000), DefaultBands())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestDetectEmptyInput(t *testing.T) {
	got := newDetector().Detect(nil, day(2026, time.August, 28))
	if len(got) != 0 {
		t.Errorf("got %d patterns, want 0", len(got))
	}
}

func TestDetectSingleOccurrenceDiscarded(t *testing.T) {
	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 10), Amount: -1200, Account: 6330, Description: "Miete Buero"},
	}
	got := newDetector().Detect(bookings, day(2026, time.August, 28))
	if len(got) != 0 {
		t.Errorf("single occurrence emitted a pattern: %+v", got)
	}
}

func TestDetectMonthlyPayroll(t *testing.T) {
	now := day(2026, time.August, 28)
	bookings := []models.Booking{
		{BookedAt: day(2026, time.July, 26), Amount: -5000, Account: 6020, Description: "Gehalt 07/2026", Counterparty: "M. Weber"},
		{BookedAt: day(2026, time.August, 26), Amount: -5000, Account: 6020, Description: "Gehalt 08/2026", Counterparty: "M. Weber"},
	}

	got := newDetector().Detect(bookings, now)
	if len(got) != 1 {
		t.Fatalf("got %d patterns, want 1", len(got))
	}
	p := got[0]
	if p.Frequency != models.FrequencyMonthly {
		t.Errorf("frequency = %q, want monthly", p.Frequency)
	}
	if p.Category != "Personalkosten" {
		t.Errorf("category = %q, want Personalkosten", p.Category)
	}
	if p.Direction != models.DirectionOutflow {
		t.Errorf("direction = %q, want outflow", p.Direction)
	}
	if p.Amount != 5000 {
		t.Errorf("amount = %v, want 5000", p.Amount)
	}
	if p.DayOfMonth != 26 {
		t.Errorf("day of month = %d, want 26", p.DayOfMonth)
	}
	if p.Occurrences != 2 {
		t.Errorf("occurrences = %d, want 2", p.Occurrences)
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		t.Errorf("confidence = %v, want (0,1]", p.Confidence)
	}
}

func TestDetectDigitRunsGroupTogether(t *testing.T) {
	now := day(2026, time.August, 28)
	// Descriptions differ only in invoice numbers; normalization must merge them.
	bookings := []models.Booking{
		{BookedAt: day(2026, time.August, 3), Amount: 800, Account: 4100, Description: "Rechnung 1001", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 10), Amount: 820, Account: 4100, Description: "Rechnung 1002", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 17), Amount: 810, Account: 4100, Description: "Rechnung 1003", Counterparty: "ACME GmbH"},
		{BookedAt: day(2026, time.August, 24), Amount: 790, Account: 4100, Description: "Rechnung 1004", Counterparty: "ACME GmbH"},
	}

	got := newDetector().Detect(bookings, now)
	if len(got) != 1 {
		t.Fatalf("got %d patterns, want 1", len(got))
	}
	p := got[0]
	// 4 occurrences in the trailing 30 days -> ~48.7/yr -> weekly band.
	if p.Frequency != models.FrequencyWeekly {
		t.Errorf("frequency = %q, want weekly", p.Frequency)
	}
	if p.Occurrences != 4 {
		t.Errorf("occurrences = %d, want 4", p.Occurrences)
	}
	if p.Direction != models.DirectionInflow {
		t.Errorf("direction = %q, want inflow", p.Direction)
	}
	if p.Amount != 805 {
		t.Errorf("amount = %v, want 805", p.Amount)
	}
}

func TestDetectRateOutsideBandsDiscarded(t *testing.T) {
	now := day(2026, time.August, 28)
	// Two occurrences in the trailing window -> ~24.3/yr would be biweekly,
	// but stale occurrences only: zero in window -> rate 0 -> discarded.
	bookings := []models.Booking{
		{BookedAt: day(2026, time.March, 5), Amount: -300, Account: 6800, Description: "Versicherung"},
		{BookedAt: day(2026, time.April, 5), Amount: -300, Account: 6800, Description: "Versicherung"},
	}
	got := newDetector().Detect(bookings, now)
	if len(got) != 0 {
		t.Errorf("stale group emitted a pattern: %+v", got)
	}
}

func TestDetectSortedByOccurrences(t *testing.T) {
	now := day(2026, time.August, 28)
	bookings := []models.Booking{
		{BookedAt: day(2026, time.July, 26), Amount: -5000, Account: 6020, Description: "Gehalt", Counterparty: "A"},
		{BookedAt: day(2026, time.August, 26), Amount: -5000, Account: 6020, Description: "Gehalt", Counterparty: "A"},
		{BookedAt: day(2026, time.August, 3), Amount: 800, Account: 4100, Description: "Rechnung 1", Counterparty: "B"},
		{BookedAt: day(2026, time.August, 10), Amount: 800, Account: 4100, Description: "Rechnung 2", Counterparty: "B"},
		{BookedAt: day(2026, time.August, 17), Amount: 800, Account: 4100, Description: "Rechnung 3", Counterparty: "B"},
		{BookedAt: day(2026, time.August, 24), Amount: 800, Account: 4100, Description: "Rechnung 4", Counterparty: "B"},
	}

	got := newDetector().Detect(bookings, now)
	if len(got) != 2 {
		t.Fatalf("got %d patterns, want 2", len(got))
	}
	if got[0].Occurrences < got[1].Occurrences {
		t.Errorf("patterns not sorted by occurrences descending: %d then %d",
			got[0].Occurrences, got[1].Occurrences)
	}
}

func TestDetectConfidenceClamped(t *testing.T) {
	now := day(2026, time.August, 28)
	// 6 occurrences in 30 days -> 73/yr, far above the weekly nominal 52.
	var bookings []models.Booking
	for i := 0; i < 6; i++ {
		bookings = append(bookings, models.Booking{
			BookedAt:    day(2026, time.August, 3+i*4),
			Amount:      -50,
			Account:     6800,
			Description: "Hosting",
		})
	}
	got := newDetector().Detect(bookings, now)
	if len(got) != 1 {
		t.Fatalf("got %d patterns, want 1", len(got))
	}
	if got[0].Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", got[0].Confidence)
	}
}
