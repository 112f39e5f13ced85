// Package report aggregates the transaction tables into the user-facing
// reports: balance, period summaries, category breakdowns, recent lists,
// CSV export and the category chart.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

// Reporter reads the per-type tables. All reads are fresh; reports always
// reflect the latest rows.
type Reporter struct {
	store    tabular.Store
	now      func() time.Time
	currency string
}

// NewReporter wires the reporter. currency, when set, is prefixed to
// amounts in report texts.
func NewReporter(store tabular.Store, now func() time.Time, currency string) *Reporter {
	return &Reporter{store: store, now: now, currency: currency}
}

func (r *Reporter) amt(v float64) string {
	return r.currency + models.FormatAmount(v)
}

// All returns every transaction across the three tables, oldest first.
func (r *Reporter) All(ctx context.Context) ([]models.Transaction, error) {
	var txns []models.Transaction
	for _, table := range models.TransactionTables() {
		rows, err := r.store.ReadAll(ctx, table)
		if err != nil {
			return nil, models.Storef("reading "+table, err)
		}
		for _, row := range rows {
			t, err := models.TransactionFromRow(row)
			if err != nil {
				return nil, models.Storef("decoding "+table+" row", err)
			}
			txns = append(txns, t)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].CreatedAt.Before(txns[j].CreatedAt)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns, nil
}

// Balance is sales+income minus expenses over everything recorded.
func (r *Reporter) Balance(ctx context.Context) (float64, error) {
	txns, err := r.All(ctx)
	if err != nil {
		return 0, err
	}
	var balance float64
	for _, t := range txns {
		switch t.Type {
		case models.TypeSale, models.TypeIncome:
			balance += t.Amount
		case models.TypeExpense:
			balance -= t.Amount
		}
	}
	return balance, nil
}

// BalanceReport renders the balance line.
func (r *Reporter) BalanceReport(ctx context.Context) (string, error) {
	balance, err := r.Balance(ctx)
	if err != nil {
		return "", err
	}
	return "💰 Current Balance: " + r.amt(balance), nil
}

// Summary holds period totals.
type Summary struct {
	Sales    float64
	Expenses float64
	Income   float64
	Count    int
}

// Net is sales+income minus expenses for the period.
func (s Summary) Net() float64 { return s.Sales + s.Income - s.Expenses }

// Summarize totals transactions whose date falls in [from, to] inclusive,
// both DateStamp strings.
func (r *Reporter) Summarize(ctx context.Context, from, to string) (Summary, error) {
	txns, err := r.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	for _, t := range txns {
		if t.Date < from || t.Date > to {
			continue
		}
		s.Count++
		switch t.Type {
		case models.TypeSale:
			s.Sales += t.Amount
		case models.TypeExpense:
			s.Expenses += t.Amount
		case models.TypeIncome:
			s.Income += t.Amount
		}
	}
	return s, nil
}

func (r *Reporter) summaryText(title string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", title)
	fmt.Fprintf(&b, "💵 Sales: %s\n", r.amt(s.Sales))
	fmt.Fprintf(&b, "💸 Expenses: %s\n", r.amt(s.Expenses))
	fmt.Fprintf(&b, "💰 Income: %s\n", r.amt(s.Income))
	fmt.Fprintf(&b, "📈 Net: %s\n", r.amt(s.Net()))
	fmt.Fprintf(&b, "🧾 %d transaction(s)", s.Count)
	return b.String()
}

// TodayReport covers just today.
func (r *Reporter) TodayReport(ctx context.Context) (string, error) {
	day := r.now().Format(models.DateStamp)
	s, err := r.Summarize(ctx, day, day)
	if err != nil {
		return "", err
	}
	return r.summaryText("Today ("+day+")", s), nil
}

// WeekReport covers the trailing 7 days including today.
func (r *Reporter) WeekReport(ctx context.Context) (string, error) {
	to := r.now()
	from := to.AddDate(0, 0, -6)
	s, err := r.Summarize(ctx, from.Format(models.DateStamp), to.Format(models.DateStamp))
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("Week (%s to %s)", from.Format(models.DateStamp), to.Format(models.DateStamp))
	return r.summaryText(title, s), nil
}

// MonthReport covers the calendar month to date, with a category table.
func (r *Reporter) MonthReport(ctx context.Context) (string, error) {
	to := r.now()
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	s, err := r.Summarize(ctx, from.Format(models.DateStamp), to.Format(models.DateStamp))
	if err != nil {
		return "", err
	}
	text := r.summaryText(to.Format("January 2006"), s)
	table, err := r.monthTable(ctx, from.Format(models.DateStamp), to.Format(models.DateStamp))
	if err != nil {
		return "", err
	}
	if table != "" {
		text += "\n```\n" + table + "```"
	}
	return text, nil
}

// categoryTotals sums expenses per category in [from, to]. Empty bounds
// mean unbounded.
func (r *Reporter) categoryTotals(ctx context.Context, from, to string) ([]categoryTotal, error) {
	txns, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]float64)
	for _, t := range txns {
		if t.Type != models.TypeExpense {
			continue
		}
		if (from != "" && t.Date < from) || (to != "" && t.Date > to) {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = "(uncategorized)"
		}
		totals[cat] += t.Amount
	}
	out := make([]categoryTotal, 0, len(totals))
	for cat, total := range totals {
		out = append(out, categoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

type categoryTotal struct {
	Category string
	Total    float64
}

// CategoriesReport breaks down all-time expenses per category.
func (r *Reporter) CategoriesReport(ctx context.Context) (string, error) {
	totals, err := r.categoryTotals(ctx, "", "")
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "📂 No expenses recorded yet.", nil
	}
	var b strings.Builder
	b.WriteString("📂 Spending by category:")
	for _, ct := range totals {
		fmt.Fprintf(&b, "\n• %s: %s", ct.Category, r.amt(ct.Total))
	}
	return b.String(), nil
}

// ListReport shows the n most recent transactions, newest first.
func (r *Reporter) ListReport(ctx context.Context, n int) (string, error) {
	txns, err := r.All(ctx)
	if err != nil {
		return "", err
	}
	if len(txns) == 0 {
		return "🧾 No transactions recorded yet.", nil
	}
	if n <= 0 {
		n = 10
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Last %d transaction(s):", min(n, len(txns)))
	for i := len(txns) - 1; i >= 0 && len(txns)-1-i < n; i-- {
		t := txns[i]
		fmt.Fprintf(&b, "\n• %s %s %s %s — %s", t.ID, t.Date, t.Type, r.amt(t.Amount), t.Description)
		if t.Category != "" {
			fmt.Fprintf(&b, " [%s]", t.Category)
		}
	}
	return b.String(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
