// Package export writes session results to an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/groupsplit/internal/ledger"
	"github.com/mmynk/groupsplit/internal/models"
)

// Sheet names, in workbook order.
const (
	SheetSummary      = "Summary"
	SheetBalances     = "Balances"
	SheetProposed     = "Proposed"
	SheetTransactions = "Transactions"
)

// ContentType is the MIME type of an XLSX workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report is everything written to the workbook.
type Report struct {
	Results      *ledger.Results
	Transactions []*models.TransactionWithMembers
	GeneratedAt  time.Time
}

// Build computes fresh results and reads the persisted transactions. The
// session state is left as it is.
func Build(ctx context.Context, l *ledger.Ledger) (*Report, error) {
	results, err := l.ReadResults(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := l.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return &Report{Results: results, Transactions: transactions, GeneratedAt: time.Now()}, nil
}

// Write renders r as an XLSX workbook to w.
func Write(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetBalances, SheetProposed, SheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	names := make(map[string]string, len(r.Results.Balances))
	for _, b := range r.Results.Balances {
		names[b.MemberID] = b.Name
	}

	s := r.Results.Summary
	summary := [][]any{
		{"Generated", r.GeneratedAt.Format(time.RFC3339)},
		{"State", string(r.Results.State)},
		{"Total spent", s.TotalSpent},
		{"Members", s.MemberCount},
		{"Activities", s.ActivityCount},
		{"Average per member", s.AveragePerMember},
		{"Rounding loss", s.RoundingLoss},
	}
	if err := writeRows(f, SheetSummary, nil, summary); err != nil {
		return err
	}

	balances := make([][]any, len(r.Results.Balances))
	for i, b := range r.Results.Balances {
		balances[i] = []any{b.Name, b.Paid, b.ShouldPay, b.Balance}
	}
	if err := writeRows(f, SheetBalances, []string{"Member", "Paid", "Should pay", "Balance"}, balances); err != nil {
		return err
	}

	proposed := make([][]any, len(r.Results.Transactions))
	for i, t := range r.Results.Transactions {
		proposed[i] = []any{names[t.FromMemberID], names[t.ToMemberID], t.Amount}
	}
	if err := writeRows(f, SheetProposed, []string{"From", "To", "Amount"}, proposed); err != nil {
		return err
	}

	persisted := make([][]any, len(r.Transactions))
	for i, t := range r.Transactions {
		status := "pending"
		if t.Completed {
			status = "completed"
		}
		persisted[i] = []any{t.From.Name, t.To.Name, t.Amount, status, time.Unix(t.CreatedAt, 0).Format("2006-01-02 15:04")}
	}
	if err := writeRows(f, SheetTransactions, []string{"From", "To", "Amount", "Status", "Created"}, persisted); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	row := 1
	if header != nil {
		values := make([]any, len(header))
		for i, h := range header {
			values[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}
		row++
	}
	for _, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
		}
		row++
	}
	return f.SetColWidth(sheet, "A", "B", 20)
}

// Handler serves a freshly built report as a download.
func Handler(l *ledger.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report, err := Build(r.Context(), l)
		if err != nil {
			slog.Error("Export failed", "error", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"groupsplit_%s.xlsx\"",
			report.GeneratedAt.Format("20060102")))

		if err := Write(w, report); err != nil {
			slog.Error("Export write failed", "error", err)
		}
	})
}
