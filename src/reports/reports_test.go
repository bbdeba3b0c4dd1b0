package reports

import (
	"bytes"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }

func TestSummarizeExpenses(t *testing.T) {
	expenses := []models.Expense{
		{Title: "Makan siang", Amount: 50000, Category: strPtr("food")},
		{Title: "Bensin", Amount: 100000, Category: strPtr("transport")},
		{Title: "Kopi", Amount: 75000, Category: strPtr("food")},
		{Title: "Lain", Amount: 10000},
	}

	s := SummarizeExpenses(expenses)

	if s.Total != 235000 {
		t.Errorf("Expected total 235000, got %v", s.Total)
	}
	if s.Count != 4 {
		t.Errorf("Expected count 4, got %d", s.Count)
	}
	if s.Average != 58750 {
		t.Errorf("Expected average 58750, got %v", s.Average)
	}
	if s.TopCategory != "Makanan & Minuman" {
		t.Errorf("Expected top category label, got %q", s.TopCategory)
	}
	if s.CategoryTotals["other"] != 10000 {
		t.Errorf("Uncategorised expenses should count as other, got %v", s.CategoryTotals)
	}
}

func TestSummarizeExpensesEmpty(t *testing.T) {
	s := SummarizeExpenses(nil)
	if s.TopCategory != "-" || s.Total != 0 || s.Average != 0 {
		t.Errorf("Unexpected empty summary: %+v", s)
	}
}

func TestCategoryLabel(t *testing.T) {
	if CategoryLabel("bills") != "Tagihan" {
		t.Error("bills should map to Tagihan")
	}
	if CategoryLabel("custom") != "custom" {
		t.Error("Unknown categories are returned as-is")
	}
}

func TestBudgetUsage(t *testing.T) {
	b := models.Budget{ID: "b1", Limit: 500000, Month: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

	u := BudgetUsage(b, 200000)
	if u.Spent != 200000 || u.Remaining != 300000 || u.MonthKey != "2025-03" {
		t.Errorf("Unexpected usage: %+v", u)
	}

	over := BudgetUsage(b, 650000)
	if over.Remaining != 0 {
		t.Errorf("Remaining must be clamped at zero, got %v", over.Remaining)
	}
}

func TestBudgetUsagesAndTotals(t *testing.T) {
	budgets := []models.Budget{{ID: "a", Limit: 100}, {ID: "b", Limit: 200}}
	usages := BudgetUsages(budgets, map[string]float64{"a": 150})

	if usages[1].Spent != 0 {
		t.Errorf("Budget without expenses should have zero spent")
	}
	totals := SumBudgets(usages)
	if totals.Limit != 300 || totals.Spent != 150 || totals.Remaining != 200 {
		t.Errorf("Unexpected totals: %+v", totals)
	}
}

func TestValuePortfolio(t *testing.T) {
	assets := []models.Asset{
		{Name: "Bitcoin", Amount: 0.5, BuyPrice: 800000000, CoinID: strPtr("bitcoin")},
		{Name: "Saham", Amount: 100, BuyPrice: 5000},
	}
	s := ValuePortfolio(assets, map[string]float64{"bitcoin": 1000000000})

	if s.Assets[0].Value != 500000000 || s.Assets[0].Profit != 100000000 {
		t.Errorf("Unexpected bitcoin valuation: %+v", s.Assets[0])
	}
	if s.Assets[1].Value != 500000 || s.Assets[1].Profit != 0 {
		t.Errorf("Unpriced asset should use buy price: %+v", s.Assets[1])
	}
	if s.TotalValue != 500500000 {
		t.Errorf("Unexpected total value %v", s.TotalValue)
	}
	if s.ProfitPercentage != 19.98 {
		t.Errorf("Expected 19.98%%, got %v", s.ProfitPercentage)
	}
}

func TestValuePortfolioEmpty(t *testing.T) {
	s := ValuePortfolio(nil, nil)
	if s.ProfitPercentage != 0 || len(s.Assets) != 0 {
		t.Errorf("Unexpected empty portfolio: %+v", s)
	}
}

func TestCoinIDs(t *testing.T) {
	assets := []models.Asset{
		{CoinID: strPtr("bitcoin")},
		{CoinID: strPtr("ethereum")},
		{CoinID: strPtr("bitcoin")},
		{},
	}
	ids := CoinIDs(assets)
	if len(ids) != 2 || ids[0] != "bitcoin" || ids[1] != "ethereum" {
		t.Errorf("Unexpected ids %v", ids)
	}
}

func TestWriteExpensesXLSX(t *testing.T) {
	expenses := []models.Expense{
		{Title: "Kopi", Amount: 25000, Category: strPtr("food"), Date: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	if err := WriteExpensesXLSX(&buf, expenses); err != nil {
		t.Fatalf("WriteExpensesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(ExpenseSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header and one row, got %d rows", len(rows))
	}
	if rows[0][0] != "Title" || rows[0][4] != "Date" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if rows[1][0] != "Kopi" || rows[1][1] != "25000" || rows[1][4] != "2025-03-05" {
		t.Errorf("Unexpected data row %v", rows[1])
	}
}

func TestStatementPDF(t *testing.T) {
	s := Statement{
		Month:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Incomes:  []models.Income{{Title: "Gaji", Amount: 10000000, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}},
		Expenses: []models.Expense{{Title: "Sewa", Amount: 3000000, Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)}},
	}

	income, expense, net := s.Totals()
	if !net.Equal(income.Sub(expense)) || net.IntPart() != 7000000 {
		t.Errorf("Unexpected net %v", net)
	}

	var buf bytes.Buffer
	if err := s.WritePDF(&buf); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("Output is not a PDF")
	}
}

func TestTrimTo(t *testing.T) {
	if trimTo("abcdef", 5) != "ab..." {
		t.Errorf("Unexpected trim %q", trimTo("abcdef", 5))
	}
	if trimTo(" abc ", 5) != "abc" {
		t.Error("Short strings are kept")
	}
}
