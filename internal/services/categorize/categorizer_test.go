package categorize

import (
	"testing"

	"LiqCast/internal/domain/models"
)

func TestCategorizeKnownRanges(t *testing.T) {
	c := New(5000)

	cases := []struct {
		account   int
		name      string
		direction models.Direction
	}{
		{4000, "Umsatzerlöse", models.DirectionInflow},
		{4999, "Umsatzerlöse", models.DirectionInflow},
		{5000, "Materialaufwand", models.DirectionOutflow},
		{6000, "Personalkosten", models.DirectionOutflow},
		{6199, "Personalkosten", models.DirectionOutflow},
		{6330, "Raumkosten", models.DirectionOutflow},
		{6830, "Verwaltungskosten", models.DirectionOutflow},
		{7650, "Steuern", models.DirectionOutflow},
	}

	for _, tc := range cases {
		got := c.Categorize(tc.account)
		if got.Name != tc.name {
			t.Errorf("account %d: name = %q, want %q", tc.account, got.Name, tc.name)
		}
		if got.Direction != tc.direction {
			t.Errorf("account %d: direction = %q, want %q", tc.account, got.Direction, tc.direction)
		}
	}
}

func TestCategorizeFallback(t *testing.T) {
	c := New(5000)

	low := c.Categorize(3000)
	if low.Name != "Sonstige Erlöse" || low.Direction != models.DirectionInflow {
		t.Errorf("account 3000: got %q/%q, want Sonstige Erlöse/inflow", low.Name, low.Direction)
	}

	// 6200 sits in the gap between Personalkosten and Raumkosten
	gap := c.Categorize(6200)
	if gap.Name != "Sonstige Aufwendungen" || gap.Direction != models.DirectionOutflow {
		t.Errorf("account 6200: got %q/%q, want Sonstige Aufwendungen/outflow", gap.Name, gap.Direction)
	}

	high := c.Categorize(9999)
	if high.Name != "Sonstige Aufwendungen" {
		t.Errorf("account 9999: got %q, want Sonstige Aufwendungen", high.Name)
	}
}

func TestCategorizeRangeLabel(t *testing.T) {
	c := New(5000)
	got := c.Categorize(6100)
	if got.Range != "6000-6199" {
		t.Errorf("range = %q, want 6000-6199", got.Range)
	}
}
