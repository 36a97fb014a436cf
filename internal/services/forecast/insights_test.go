package forecast

import (
	"strings"
	"testing"
	"time"

	"LiqCast/internal/domain/models"
)

func TestBuildInsightsCap(t *testing.T) {
	weeks := []models.LiquidityWeek{
		{Index: 0, CalendarWeek: "2026-W35", StartDate: day(2026, time.September, 28), ClosingBalance: 40000},
		{Index: 1, CalendarWeek: "2026-W36", ClosingBalance: 35000},
	}
	runway := 6.0
	kpis := models.ForecastKPIs{
		TotalInflow:  10000,
		TotalOutflow: 20000,
		BurnRate:     1000,
		RunwayWeeks:  &runway,
	}
	patterns := []models.RecurringPattern{{
		Frequency: models.FrequencyMonthly,
		Direction: models.DirectionOutflow,
		Category:  "Personalkosten",
		Amount:    5000,
	}}
	breakdown := []models.CategoryBreakdownItem{
		{Name: "Personalkosten", Total: 15000, Direction: models.DirectionOutflow, Percentage: 75},
	}

	got := BuildInsights(weeks, kpis, patterns, breakdown, DefaultRules())
	if len(got) > 5 {
		t.Errorf("got %d insights, want at most 5", len(got))
	}
	if len(got) != 5 {
		t.Fatalf("got %d insights, want all 5 producers firing: %v", len(got), got)
	}
}

func TestRunwayInsightWarnsWhenShort(t *testing.T) {
	runway := 6.5
	kpis := models.ForecastKPIs{BurnRate: 2000, RunwayWeeks: &runway}
	s := runwayInsight(kpis, 13)
	if !strings.Contains(s, "6.5") {
		t.Errorf("runway insight missing the week count: %q", s)
	}
	if strings.Contains(s, "stabil") {
		t.Errorf("short runway narrated as stable: %q", s)
	}
}

func TestRunwayInsightStableWhenUnbounded(t *testing.T) {
	s := runwayInsight(models.ForecastKPIs{}, 13)
	if !strings.Contains(s, "stabil") {
		t.Errorf("unbounded runway not narrated as stable: %q", s)
	}
}

func TestCostDriverInsightPicksLargestOutflow(t *testing.T) {
	breakdown := []models.CategoryBreakdownItem{
		{Name: "Umsatzerlöse", Total: 90000, Direction: models.DirectionInflow},
		{Name: "Materialaufwand", Total: 12000, Direction: models.DirectionOutflow},
		{Name: "Personalkosten", Total: 25000, Direction: models.DirectionOutflow},
	}
	s, ok := costDriverInsight(breakdown)
	if !ok {
		t.Fatal("no cost driver found")
	}
	if !strings.Contains(s, "Personalkosten") {
		t.Errorf("cost driver = %q, want Personalkosten", s)
	}
}

func TestTrendInsightDirection(t *testing.T) {
	falling := []models.LiquidityWeek{
		{ClosingBalance: 100}, {ClosingBalance: 100},
		{ClosingBalance: 50}, {ClosingBalance: 50},
	}
	s, ok := trendInsight(falling)
	if !ok {
		t.Fatal("no trend insight")
	}
	if !strings.Contains(s, "sinkt") {
		t.Errorf("falling trend narrated as %q", s)
	}

	rising := []models.LiquidityWeek{
		{ClosingBalance: 50}, {ClosingBalance: 50},
		{ClosingBalance: 100}, {ClosingBalance: 100},
	}
	s, ok = trendInsight(rising)
	if !ok {
		t.Fatal("no trend insight")
	}
	if !strings.Contains(s, "steigt") {
		t.Errorf("rising trend narrated as %q", s)
	}
}
