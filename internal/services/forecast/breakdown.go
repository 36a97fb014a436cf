package forecast

import (
	"sort"

	"LiqCast/internal/domain/models"
	"LiqCast/internal/services/stats"
)

// AggregateCategories sums each category's contribution across all weeks.
// Percentages are normalized within the category's own direction: inflow
// categories against total inflow, outflow categories against total outflow.
func AggregateCategories(weeks []models.LiquidityWeek) []models.CategoryBreakdownItem {
	totals := make(map[string]*models.CategoryBreakdownItem)
	order := make([]string, 0)
	var totalIn, totalOut float64

	for _, w := range weeks {
		for _, c := range w.Categories {
			item, ok := totals[c.Name]
			if !ok {
				item = &models.CategoryBreakdownItem{Name: c.Name, Direction: c.Direction}
				totals[c.Name] = item
				order = append(order, c.Name)
			}
			item.Total += c.Amount
			if c.Direction == models.DirectionInflow {
				totalIn += c.Amount
			} else {
				totalOut += c.Amount
			}
		}
	}

	horizon := float64(len(weeks))
	out := make([]models.CategoryBreakdownItem, 0, len(order))
	for _, name := range order {
		item := totals[name]
		if horizon > 0 {
			item.WeeklyAverage = stats.Round2(item.Total / horizon)
		}
		base := totalOut
		if item.Direction == models.DirectionInflow {
			base = totalIn
		}
		if base > 0 {
			item.Percentage = stats.Round2(item.Total / base * 100)
		}
		item.Total = stats.Round2(item.Total)
		out = append(out, *item)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
