// Package models holds the record types shared by the engine, the store
// adapters and the transports, plus the error taxonomy every reply path
// is built on.
package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// DateStamp is the day format used in store rows and replies.
const DateStamp = "2006-01-02"

// Transaction types. The three-letter id prefix is derived from these.
const (
	TypeSale    = "sale"
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Price range kinds.
const (
	KindItem     = "item"
	KindCategory = "category"
)

// Budget and recurring periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Row statuses for budgets and recurring templates.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// LastNever marks a recurring template that has not been posted yet.
const LastNever = "never"

// Transaction is one recorded sale, expense or income row.
type Transaction struct {
	ID          string
	Date        string // DateStamp
	Type        string
	Amount      float64
	Description string
	Category    string
	User        string
	CreatedAt   time.Time
}

// Row lays the transaction out in store column order:
// id, date, type, amount, description, category, user, timestamp.
func (t Transaction) Row() []string {
	return []string{
		t.ID,
		t.Date,
		t.Type,
		FormatAmount(t.Amount),
		t.Description,
		t.Category,
		t.User,
		t.CreatedAt.Format(time.RFC3339),
	}
}

// TransactionFromRow is the inverse of Row.
func TransactionFromRow(row []string) (Transaction, error) {
	if len(row) < 8 {
		return Transaction{}, errors.Errorf("transaction row has %d columns, want 8", len(row))
	}
	amount, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Transaction{}, errors.Wrapf(err, "bad amount %q in row %s", row[3], row[0])
	}
	created, err := time.Parse(time.RFC3339, row[7])
	if err != nil {
		return Transaction{}, errors.Wrapf(err, "bad timestamp %q in row %s", row[7], row[0])
	}
	return Transaction{
		ID:          row[0],
		Date:        row[1],
		Type:        row[2],
		Amount:      amount,
		Description: row[4],
		Category:    row[5],
		User:        row[6],
		CreatedAt:   created,
	}, nil
}

// PriceRange is one trained {subject -> expected price band} entry.
type PriceRange struct {
	Key         string // item name or "#category", stored lowercase
	Kind        string
	Min         float64
	Max         float64
	Unit        string
	Confidence  float64
	TrainedBy   string
	LastTrained time.Time
}

func (p PriceRange) Row() []string {
	return []string{
		p.Key,
		p.Kind,
		FormatAmount(p.Min),
		FormatAmount(p.Max),
		p.Unit,
		strconv.FormatFloat(p.Confidence, 'f', 2, 64),
		p.TrainedBy,
		p.LastTrained.Format(time.RFC3339),
	}
}

func PriceRangeFromRow(row []string) (PriceRange, error) {
	if len(row) < 8 {
		return PriceRange{}, errors.Errorf("price row has %d columns, want 8", len(row))
	}
	min, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "bad min %q for %q", row[2], row[0])
	}
	max, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "bad max %q for %q", row[3], row[0])
	}
	conf, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "bad confidence %q for %q", row[5], row[0])
	}
	trained, err := time.Parse(time.RFC3339, row[7])
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "bad trained time %q for %q", row[7], row[0])
	}
	return PriceRange{
		Key:         row[0],
		Kind:        row[1],
		Min:         min,
		Max:         max,
		Unit:        row[4],
		Confidence:  conf,
		TrainedBy:   row[6],
		LastTrained: trained,
	}, nil
}

// Budget tracks spend against a limit for one subject, user and period.
type Budget struct {
	Key            string
	Amount         float64
	Period         string
	Spent          float64
	StartDate      string // DateStamp
	EndDate        string // DateStamp, inclusive
	User           string
	AlertThreshold float64 // percent
	Status         string
}

// Remaining is recomputed, never stored.
func (b Budget) Remaining() float64 { return b.Amount - b.Spent }

// PercentUsed returns spent as a percentage of the budget amount.
func (b Budget) PercentUsed() float64 {
	if b.Amount == 0 {
		return 0
	}
	return b.Spent / b.Amount * 100
}

func (b Budget) Row() []string {
	return []string{
		b.Key,
		FormatAmount(b.Amount),
		b.Period,
		FormatAmount(b.Spent),
		b.StartDate,
		b.EndDate,
		b.User,
		strconv.FormatFloat(b.AlertThreshold, 'f', 1, 64),
		b.Status,
	}
}

func BudgetFromRow(row []string) (Budget, error) {
	if len(row) < 9 {
		return Budget{}, errors.Errorf("budget row has %d columns, want 9", len(row))
	}
	amount, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return Budget{}, errors.Wrapf(err, "bad amount %q for budget %q", row[1], row[0])
	}
	spent, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return Budget{}, errors.Wrapf(err, "bad spent %q for budget %q", row[3], row[0])
	}
	threshold, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return Budget{}, errors.Wrapf(err, "bad threshold %q for budget %q", row[7], row[0])
	}
	return Budget{
		Key:            row[0],
		Amount:         amount,
		Period:         row[2],
		Spent:          spent,
		StartDate:      row[4],
		EndDate:        row[5],
		User:           row[6],
		AlertThreshold: threshold,
		Status:         row[8],
	}, nil
}

// RecurringTemplate is an auto-posted transaction blueprint.
type RecurringTemplate struct {
	Type         string
	Amount       float64
	Description  string
	Frequency    string
	LastRecorded string // DateStamp or "never"
	User         string
	Status       string
}

func (r RecurringTemplate) Row() []string {
	return []string{
		r.Type,
		FormatAmount(r.Amount),
		r.Description,
		r.Frequency,
		r.LastRecorded,
		r.User,
		r.Status,
	}
}

func RecurringFromRow(row []string) (RecurringTemplate, error) {
	if len(row) < 7 {
		return RecurringTemplate{}, errors.Errorf("recurring row has %d columns, want 7", len(row))
	}
	amount, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return RecurringTemplate{}, errors.Wrapf(err, "bad amount %q for recurring %q", row[1], row[2])
	}
	return RecurringTemplate{
		Type:         row[0],
		Amount:       amount,
		Description:  row[2],
		Frequency:    row[3],
		LastRecorded: row[4],
		User:         row[5],
		Status:       row[6],
	}, nil
}

// Goal is a savings target measured against the running balance.
type Goal struct {
	ID          string
	Date        string // DateStamp
	Amount      float64
	Description string
	User        string
	CreatedAt   time.Time
}

func (g Goal) Row() []string {
	return []string{
		g.ID,
		g.Date,
		FormatAmount(g.Amount),
		g.Description,
		g.User,
		g.CreatedAt.Format(time.RFC3339),
	}
}

func GoalFromRow(row []string) (Goal, error) {
	if len(row) < 6 {
		return Goal{}, errors.Errorf("goal row has %d columns, want 6", len(row))
	}
	amount, err := strconv.ParseFloat(row[2], 64)
	if err != nil {
		return Goal{}, errors.Wrapf(err, "bad amount %q for goal %q", row[2], row[0])
	}
	created, err := time.Parse(time.RFC3339, row[5])
	if err != nil {
		return Goal{}, errors.Wrapf(err, "bad timestamp %q for goal %q", row[5], row[0])
	}
	return Goal{
		ID:          row[0],
		Date:        row[1],
		Amount:      amount,
		Description: row[3],
		User:        row[4],
		CreatedAt:   created,
	}, nil
}

// Store table names, one per transaction type plus the supporting tables.
const (
	TableSales     = "sales"
	TableExpenses  = "expenses"
	TableIncome    = "income"
	TablePrices    = "prices"
	TableBudgets   = "budgets"
	TableRecurring = "recurring"
	TableGoals     = "goals"
)

// TableFor maps a transaction type to its store table.
func TableFor(typ string) (string, error) {
	switch typ {
	case TypeSale:
		return TableSales, nil
	case TypeExpense:
		return TableExpenses, nil
	case TypeIncome:
		return TableIncome, nil
	}
	return "", errors.Errorf("no table for transaction type %q", typ)
}

// ArchiveTableFor maps a transaction type to its archival table.
func ArchiveTableFor(typ string) (string, error) {
	table, err := TableFor(typ)
	if err != nil {
		return "", err
	}
	return "archive_" + table, nil
}

// TransactionTables lists the live per-type tables in reporting order.
func TransactionTables() []string {
	return []string{TableSales, TableExpenses, TableIncome}
}

// FormatAmount renders amounts the way replies and store rows show them.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
