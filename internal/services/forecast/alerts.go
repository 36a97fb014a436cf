package forecast

import (
	"fmt"

	"LiqCast/internal/domain/models"
)

// GenerateAlerts evaluates each projected week against the threshold rules.
// A week may emit multiple alerts; nothing is deduplicated.
func GenerateAlerts(weeks []models.LiquidityWeek, threshold float64, rules Rules) []models.LiquidityAlert {
	alerts := make([]models.LiquidityAlert, 0)
	for _, w := range weeks {
		if w.ClosingBalance <= 0 {
			alerts = append(alerts, models.LiquidityAlert{
				Week:             w.Index,
				CalendarWeek:     w.CalendarWeek,
				Severity:         models.SeverityCritical,
				Message:          fmt.Sprintf("Projizierter Kontostand in %s negativ (%.2f EUR)", w.CalendarWeek, w.ClosingBalance),
				ProjectedBalance: w.ClosingBalance,
			})
		} else if w.ClosingBalance < threshold {
			alerts = append(alerts, models.LiquidityAlert{
				Week:             w.Index,
				CalendarWeek:     w.CalendarWeek,
				Severity:         models.SeverityWarning,
				Message:          fmt.Sprintf("Projizierter Kontostand in %s unter Schwellwert von %.0f EUR", w.CalendarWeek, threshold),
				ProjectedBalance: w.ClosingBalance,
			})
		}
		if w.Index > 0 && w.NetCashflow < -rules.LargeDrop {
			alerts = append(alerts, models.LiquidityAlert{
				Week:             w.Index,
				CalendarWeek:     w.CalendarWeek,
				Severity:         models.SeverityInfo,
				Message:          fmt.Sprintf("Hoher Mittelabfluss in %s (%.2f EUR)", w.CalendarWeek, w.NetCashflow),
				ProjectedBalance: w.ClosingBalance,
			})
		}
	}
	return alerts
}
