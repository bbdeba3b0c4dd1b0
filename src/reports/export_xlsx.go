package reports

import (
	"fmt"
	"io"

	"fintrack-server/src/models"

	"github.com/xuri/excelize/v2"
)

const ExpenseSheet = "Expenses"

var expenseHeaders = []string{"Title", "Amount", "Category", "Description", "Date"}

// WriteExpensesXLSX writes the expenses as a single-sheet workbook.
func WriteExpensesXLSX(w io.Writer, expenses []models.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExpenseSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ExpenseSheet, "A1", &expenseHeaders); err != nil {
		return err
	}

	for i, e := range expenses {
		row := []interface{}{e.Title, e.Amount, deref(e.Category), deref(e.Description), e.Date.UTC().Format("2006-01-02")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExpenseSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ExpenseSheet, "A", "A", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(ExpenseSheet, "D", "D", 40); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
