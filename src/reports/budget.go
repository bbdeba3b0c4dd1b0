package reports

import (
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/shopspring/decimal"
)

// BudgetUsage attaches spending to a budget. Remaining never goes below zero.
func BudgetUsage(b models.Budget, spent float64) models.BudgetUsage {
	limit := decimal.NewFromFloat(b.Limit)
	used := decimal.NewFromFloat(spent)
	remaining := limit.Sub(used)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return models.BudgetUsage{
		Budget:    b,
		Spent:     used.InexactFloat64(),
		Remaining: remaining.InexactFloat64(),
		MonthKey:  util.FormatMonth(b.Month),
	}
}

// BudgetUsages joins budgets with per-budget spending totals keyed by budget id.
func BudgetUsages(budgets []models.Budget, spent map[string]float64) []models.BudgetUsage {
	out := make([]models.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetUsage(b, spent[b.ID]))
	}
	return out
}

func SumBudgets(usages []models.BudgetUsage) models.BudgetTotals {
	limit, spent, remaining := decimal.Zero, decimal.Zero, decimal.Zero
	for _, u := range usages {
		limit = limit.Add(decimal.NewFromFloat(u.Limit))
		spent = spent.Add(decimal.NewFromFloat(u.Spent))
		remaining = remaining.Add(decimal.NewFromFloat(u.Remaining))
	}
	return models.BudgetTotals{
		Limit:     limit.InexactFloat64(),
		Spent:     spent.InexactFloat64(),
		Remaining: remaining.InexactFloat64(),
	}
}
