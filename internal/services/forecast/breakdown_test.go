package forecast

import (
	"math"
	"testing"

	"LiqCast/internal/domain/models"
)

func TestAggregateCategories(t *testing.T) {
	weeks := []models.LiquidityWeek{
		{Categories: []models.CashflowCategory{
			{Name: "Umsatzerlöse", Amount: 8000, Direction: models.DirectionInflow},
			{Name: "Personalkosten", Amount: 5000, Direction: models.DirectionOutflow},
		}},
		{Categories: []models.CashflowCategory{
			{Name: "Umsatzerlöse", Amount: 8000, Direction: models.DirectionInflow},
			{Name: "Personalkosten", Amount: 5000, Direction: models.DirectionOutflow},
			{Name: "Raumkosten", Amount: 1800, Direction: models.DirectionOutflow},
		}},
	}

	got := AggregateCategories(weeks)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}

	// Sorted by total descending.
	if got[0].Name != "Umsatzerlöse" || got[1].Name != "Personalkosten" || got[2].Name != "Raumkosten" {
		t.Fatalf("order = %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
	if got[0].Total != 16000 {
		t.Errorf("Umsatzerlöse total = %v, want 16000", got[0].Total)
	}
	if got[0].WeeklyAverage != 8000 {
		t.Errorf("Umsatzerlöse weekly average = %v, want 8000", got[0].WeeklyAverage)
	}

	// Inflow normalized against total inflow: sole inflow category is 100%.
	if got[0].Percentage != 100 {
		t.Errorf("Umsatzerlöse percentage = %v, want 100", got[0].Percentage)
	}
	// Outflow normalized against total outflow 11800.
	wantPct := 10000.0 / 11800.0 * 100
	if math.Abs(got[1].Percentage-wantPct) > 0.01 {
		t.Errorf("Personalkosten percentage = %v, want %v", got[1].Percentage, wantPct)
	}
}

func TestAggregateCategoriesEmpty(t *testing.T) {
	if got := AggregateCategories(nil); len(got) != 0 {
		t.Errorf("got %d items, want 0", len(got))
	}
}
