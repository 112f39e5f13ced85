package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Livo-Africa/accountbot/internal/models"
)

// monthTable renders the month's expense categories as a text table.
func (r *Reporter) monthTable(ctx context.Context, from, to string) (string, error) {
	totals, err := r.categoryTotals(ctx, from, to)
	if err != nil {
		return "", err
	}
	if len(totals) == 0 {
		return "", nil
	}
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Category", "Spent"})
	for _, ct := range totals {
		table.Append([]string{ct.Category, r.amt(ct.Total)})
	}
	table.Render()
	return buf.String(), nil
}

// BudgetTable renders budget standings as a text table, one row per
// budget in the order given.
func (r *Reporter) BudgetTable(budgets []models.Budget) string {
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"Budget", "Spent", "Limit", "Used", "Resets"})
	for _, b := range budgets {
		table.Append([]string{
			b.Key,
			r.amt(b.Spent),
			r.amt(b.Amount),
			fmt.Sprintf("%.1f%%", b.PercentUsed()),
			b.EndDate,
		})
	}
	table.Render()
	return buf.String()
}

// ExportCSV dumps every transaction as a CSV document, oldest first.
// Nil document when nothing has been recorded.
func (r *Reporter) ExportCSV(ctx context.Context) (*models.Document, error) {
	txns, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"id", "date", "type", "amount", "description", "category", "user", "timestamp"}); err != nil {
		return nil, models.Storef("writing export", err)
	}
	for _, t := range txns {
		if err := w.Write(t.Row()); err != nil {
			return nil, models.Storef("writing export", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, models.Storef("writing export", err)
	}
	name := "transactions_" + r.now().Format(models.DateStamp) + ".csv"
	return &models.Document{Filename: name, Payload: buf.Bytes()}, nil
}

// CategoryChart renders this month's expense categories as a PNG bar
// chart. Nil document when there is nothing to draw.
func (r *Reporter) CategoryChart(ctx context.Context) (*models.Document, error) {
	to := r.now()
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	totals, err := r.categoryTotals(ctx, from.Format(models.DateStamp), to.Format(models.DateStamp))
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}
	var bars []chart.Value
	for _, ct := range totals {
		bars = append(bars, chart.Value{Label: ct.Category, Value: ct.Total})
	}
	barChart := chart.BarChart{
		Title: "Expenses by category — " + to.Format("January 2006"),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:    800,
		Height:   400,
		BarWidth: 60,
		Bars:     bars,
	}
	buf := &bytes.Buffer{}
	if err := barChart.Render(chart.PNG, buf); err != nil {
		return nil, models.Storef("rendering chart", err)
	}
	name := "categories_" + to.Format(models.DateStamp) + ".png"
	return &models.Document{Filename: name, Payload: buf.Bytes()}, nil
}
