package forecast

import (
	"fmt"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/stats"
)

const maxInsights = 5

// BuildInsights derives a fixed, ordered list of observations from a
// finished projection. The pipeline is deliberately not generative so that
// identical forecasts always narrate identically.
func BuildInsights(
	weeks []models.LiquidityWeek,
	kpis models.ForecastKPIs,
	patterns []models.RecurringPattern,
	breakdown []models.CategoryBreakdownItem,
	rules Rules,
) []string {
	insights := make([]string, 0, maxInsights)

	if s, ok := payrollInsight(weeks, patterns, rules); ok {
		insights = append(insights, s)
	}
	insights = append(insights, runwayInsight(kpis, len(weeks)))
	if s, ok := costDriverInsight(breakdown); ok {
		insights = append(insights, s)
	}
	if s, ok := trendInsight(weeks); ok {
		insights = append(insights, s)
	}
	if s, ok := ratioInsight(kpis); ok {
		insights = append(insights, s)
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// payrollInsight reports the projected balance in the week of the next
// monthly personnel payment.
func payrollInsight(weeks []models.LiquidityWeek, patterns []models.RecurringPattern, rules Rules) (string, bool) {
	found := false
	for _, p := range patterns {
		if p.Frequency == models.FrequencyMonthly && p.Direction == models.DirectionOutflow && p.Category == rules.PayrollCategory {
			found = true
			break
		}
	}
	if !found {
		return "", false
	}
	for _, w := range weeks {
		day := w.StartDate.Day()
		if day >= rules.PayrollWindowStart && day <= rules.PayrollWindowEnd {
			return fmt.Sprintf("Zur nächsten Gehaltszahlung in %s liegt der projizierte Kontostand bei %.2f EUR.",
				w.CalendarWeek, w.ClosingBalance), true
		}
	}
	return "", false
}

func runwayInsight(kpis models.ForecastKPIs, horizon int) string {
	if kpis.RunwayWeeks != nil && *kpis.RunwayWeeks < float64(horizon) {
		return fmt.Sprintf("Bei aktueller Burn-Rate von %.2f EUR pro Woche reicht die Liquidität nur noch ca. %.1f Wochen.",
			kpis.BurnRate, *kpis.RunwayWeeks)
	}
	return "Die Liquiditätslage ist über den Prognosezeitraum stabil, es ist kein Kapitalverzehr projiziert."
}

func costDriverInsight(breakdown []models.CategoryBreakdownItem) (string, bool) {
	var top *models.CategoryBreakdownItem
	for i := range breakdown {
		item := &breakdown[i]
		if item.Direction != models.DirectionOutflow {
			continue
		}
		if top == nil || item.Total > top.Total {
			top = item
		}
	}
	if top == nil {
		return "", false
	}
	return fmt.Sprintf("Größter Kostentreiber ist %s mit %.2f EUR (%.1f%% der projizierten Ausgaben).",
		top.Name, top.Total, top.Percentage), true
}

// trendInsight compares the average closing balance of the first half of
// the horizon with the second half.
func trendInsight(weeks []models.LiquidityWeek) (string, bool) {
	if len(weeks) < 2 {
		return "", false
	}
	half := len(weeks) / 2
	first := avgClosing(weeks[:half])
	second := avgClosing(weeks[half:])
	diff := stats.Round2(second - first)

	direction := "steigt"
	if diff < 0 {
		direction = "sinkt"
	}
	return fmt.Sprintf("Der durchschnittliche Kontostand %s in der zweiten Hälfte des Prognosezeitraums um %.2f EUR.",
		direction, abs(diff)), true
}

func ratioInsight(kpis models.ForecastKPIs) (string, bool) {
	if kpis.TotalInflow <= 0 {
		return "", false
	}
	ratio := stats.Round2(kpis.TotalOutflow / kpis.TotalInflow * 100)
	return fmt.Sprintf("Die projizierten Ausgaben entsprechen %.1f%% der projizierten Einnahmen.", ratio), true
}

func avgClosing(weeks []models.LiquidityWeek) float64 {
	if len(weeks) == 0 {
		return 0
	}
	var sum float64
	for _, w := range weeks {
		sum += w.ClosingBalance
	}
	return sum / float64(len(weeks))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
