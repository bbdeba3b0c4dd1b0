package reports

import (
	"io"
	"sort"
	"strings"
	"time"

	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

type Statement struct {
	Month    time.Time
	Incomes  []models.Income
	Expenses []models.Expense
}

type statementLine struct {
	kind   string
	date   time.Time
	title  string
	amount float64
}

// Totals returns the statement's income, expense and net amounts.
func (s Statement) Totals() (income, expense, net decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, i := range s.Incomes {
		income = income.Add(decimal.NewFromFloat(i.Amount))
	}
	for _, e := range s.Expenses {
		expense = expense.Add(decimal.NewFromFloat(e.Amount))
	}
	return income, expense, income.Sub(expense)
}

func (s Statement) lines() []statementLine {
	lines := make([]statementLine, 0, len(s.Incomes)+len(s.Expenses))
	for _, i := range s.Incomes {
		lines = append(lines, statementLine{"PEMASUKAN", i.Date, i.Title, i.Amount})
	}
	for _, e := range s.Expenses {
		lines = append(lines, statementLine{"PENGELUARAN", e.Date, e.Title, -e.Amount})
	}
	sort.SliceStable(lines, func(a, b int) bool { return lines[a].date.After(lines[b].date) })
	return lines
}

// WritePDF renders the monthly statement.
func (s Statement) WritePDF(w io.Writer) error {
	income, expense, net := s.Totals()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Laporan Keuangan")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Periode: "+util.FormatMonth(s.Month))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Pemasukan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Pengeluaran", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Selisih", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, util.FormatIDR(income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, util.FormatIDR(expense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, util.FormatIDR(net), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{32, 26, 84, 44}
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "JENIS", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "TANGGAL", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "KETERANGAN", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "JUMLAH", "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	lines := s.lines()
	if len(lines) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "Tidak ada transaksi", "1", 1, "C", false, 0, "")
	}
	for _, l := range lines {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(colW[0], 8, l.kind, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, l.date.UTC().Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(l.title, 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, util.FormatIDR(decimal.NewFromFloat(l.amount)), "1", 1, "R", false, 0, "")
	}

	return pdf.Output(w)
}

func trimTo(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
