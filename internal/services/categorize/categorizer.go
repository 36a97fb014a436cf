package categorize

import (
	"fmt"

	"LiqCast/internal/domain/models"
	domsvc "LiqCast/internal/domain/service"
)

// accountRange maps an inclusive account number range to a category.
type accountRange struct {
	Low       int
	High      int
	Name      string
	Direction models.Direction
	Color     string
}

// SKR-style chart of accounts. Bookings outside every range fall back to the
// boundary rule: below the boundary account they count as other revenue,
// at or above as other expenses.
var defaultRanges = []accountRange{
	{4000, 4999, "Umsatzerlöse", models.DirectionInflow, "#2e7d32"},
	{5000, 5999, "Materialaufwand", models.DirectionOutflow, "#c62828"},
	{6000, 6199, "Personalkosten", models.DirectionOutflow, "#ad1457"},
	{6300, 6399, "Raumkosten", models.DirectionOutflow, "#6a1b9a"},
	{6800, 6899, "Verwaltungskosten", models.DirectionOutflow, "#4527a0"},
	{7600, 7699, "Steuern", models.DirectionOutflow, "#283593"},
}

// Categorizer resolves booking accounts to cashflow categories.
type Categorizer struct {
	ranges   []accountRange
	boundary int
}

// New creates a categorizer with the default SKR-style ranges.
// boundaryAccount splits uncategorized accounts into revenue and expense.
func New(boundaryAccount int) *Categorizer {
	return &Categorizer{
		ranges:   defaultRanges,
		boundary: boundaryAccount,
	}
}

// Categorize returns the category for an account number.
func (c *Categorizer) Categorize(account int) models.AccountCategory {
	for _, r := range c.ranges {
		if account >= r.Low && account <= r.High {
			return models.AccountCategory{
				Name:      r.Name,
				Direction: r.Direction,
				Color:     r.Color,
				Range:     fmt.Sprintf("%d-%d", r.Low, r.High),
			}
		}
	}
	if account < c.boundary {
		return models.AccountCategory{
			Name:      "Sonstige Erlöse",
			Direction: models.DirectionInflow,
			Color:     "#558b2f",
		}
	}
	return models.AccountCategory{
		Name:      "Sonstige Aufwendungen",
		Direction: models.DirectionOutflow,
		Color:     "#616161",
	}
}

var _ domsvc.AccountCategorizer = (*Categorizer)(nil)
