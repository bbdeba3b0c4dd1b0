package reports

import (
	"sort"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
)

var categoryLabels = map[string]string{
	"food":          "Makanan & Minuman",
	"transport":     "Transportasi",
	"shopping":      "Belanja",
	"bills":         "Tagihan",
	"entertainment": "Hiburan",
	"health":        "Kesehatan",
	"education":     "Pendidikan",
	"other":         "Lainnya",
}

// CategoryLabel returns the display label for an expense category.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	if category == "" {
		return categoryLabels["other"]
	}
	return category
}

// SummarizeExpenses totals expenses overall and per category. Uncategorised rows count as "other".
func SummarizeExpenses(expenses []models.Expense) models.ExpenseSummary {
	total := decimal.Zero
	perCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		category := "other"
		if e.Category != nil && *e.Category != "" {
			category = *e.Category
		}
		perCategory[category] = perCategory[category].Add(amount)
	}

	summary := models.ExpenseSummary{
		Total:          total.InexactFloat64(),
		Count:          len(expenses),
		TopCategory:    "-",
		CategoryTotals: make(map[string]float64, len(perCategory)),
	}
	if len(expenses) > 0 {
		summary.Average = total.Div(decimal.NewFromInt(int64(len(expenses)))).Round(2).InexactFloat64()
	}

	// sorted keys keep ties deterministic
	keys := make([]string, 0, len(perCategory))
	for k := range perCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var top string
	for _, k := range keys {
		summary.CategoryTotals[k] = perCategory[k].InexactFloat64()
		if top == "" || perCategory[k].GreaterThan(perCategory[top]) {
			top = k
		}
	}
	if top != "" {
		summary.TopCategory = CategoryLabel(top)
	}
	return summary
}
