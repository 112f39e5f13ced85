// Package budget tracks spend against per-subject limits and raises
// threshold alerts. Alerts are level-triggered: every spend that lands at
// or above the threshold alerts again until the period resets.
package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

// Tracker reads and writes the budgets table.
type Tracker struct {
	store tabular.Store
	now   func() time.Time
}

// NewTracker wires the tracker to its table.
func NewTracker(store tabular.Store, now func() time.Time) *Tracker {
	return &Tracker{store: store, now: now}
}

// Alert reports a budget at or over its threshold.
type Alert struct {
	Budget models.Budget
}

func (a Alert) String() string {
	b := a.Budget
	if b.Spent >= b.Amount {
		return fmt.Sprintf("🔴 Budget exceeded: %s at %.1f%% (%s/%s)",
			b.Key, b.PercentUsed(), models.FormatAmount(b.Spent), models.FormatAmount(b.Amount))
	}
	return fmt.Sprintf("🚨 Budget alert: %s at %.1f%% (%s/%s)",
		b.Key, b.PercentUsed(), models.FormatAmount(b.Spent), models.FormatAmount(b.Amount))
}

func periodEnd(start time.Time, period string) time.Time {
	switch period {
	case models.PeriodDaily:
		return start
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 6)
	}
	return start.AddDate(0, 1, 0).AddDate(0, 0, -1)
}

// Set creates or replaces the active budget for (key, user). The period
// window anchors at today.
func (t *Tracker) Set(ctx context.Context, key string, amount float64, period string, alertPct float64, user string) (models.Budget, error) {
	start := t.now()
	b := models.Budget{
		Key:            key,
		Amount:         amount,
		Period:         period,
		Spent:          0,
		StartDate:      start.Format(models.DateStamp),
		EndDate:        periodEnd(start, period).Format(models.DateStamp),
		User:           user,
		AlertThreshold: alertPct,
		Status:         models.StatusActive,
	}
	if err := t.replaceActive(ctx, key, user, &b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

// replaceActive removes the active row for (key, user) if present, then
// appends replacement when non-nil.
func (t *Tracker) replaceActive(ctx context.Context, key, user string, replacement *models.Budget) error {
	rows, err := t.store.ReadAll(ctx, models.TableBudgets)
	if err != nil {
		return models.Storef("reading budgets", err)
	}
	for i := len(rows) - 1; i >= 0; i-- {
		b, err := models.BudgetFromRow(rows[i])
		if err != nil {
			return models.Storef("decoding budget row", err)
		}
		if b.Key == key && b.User == user && b.Status == models.StatusActive {
			if err := t.store.DeleteRow(ctx, models.TableBudgets, i); err != nil {
				return models.Storef("replacing budget", err)
			}
		}
	}
	if replacement != nil {
		if err := t.store.Append(ctx, models.TableBudgets, replacement.Row()); err != nil {
			return models.Storef("writing budget", err)
		}
	}
	return nil
}

// rollover re-anchors a budget whose period has lapsed, resetting spent.
// Persisted immediately; every later access sees the fresh window.
func (t *Tracker) rollover(ctx context.Context, b models.Budget) (models.Budget, error) {
	today := t.now().Format(models.DateStamp)
	if today <= b.EndDate {
		return b, nil
	}
	start := t.now()
	b.Spent = 0
	b.StartDate = start.Format(models.DateStamp)
	b.EndDate = periodEnd(start, b.Period).Format(models.DateStamp)
	if err := t.replaceActive(ctx, b.Key, b.User, &b); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

// Get returns the user's active budget for key with any lapsed period
// rolled over, or nil.
func (t *Tracker) Get(ctx context.Context, key, user string) (*models.Budget, error) {
	all, err := t.List(ctx, user)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Key == key {
			return &all[i], nil
		}
	}
	return nil, nil
}

// List returns the user's active budgets, rolled over where lapsed.
func (t *Tracker) List(ctx context.Context, user string) ([]models.Budget, error) {
	rows, err := t.store.ReadAll(ctx, models.TableBudgets)
	if err != nil {
		return nil, models.Storef("reading budgets", err)
	}
	var out []models.Budget
	for _, row := range rows {
		b, err := models.BudgetFromRow(row)
		if err != nil {
			return nil, models.Storef("decoding budget row", err)
		}
		if b.User != user || b.Status != models.StatusActive {
			continue
		}
		b, err = t.rollover(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// RecordSpend adds amount to the active budget for key and returns an
// alert when the new level sits at or above the threshold. No budget, no
// alert, no error.
func (t *Tracker) RecordSpend(ctx context.Context, key, user string, amount float64) (*Alert, error) {
	b, err := t.Get(ctx, key, user)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	b.Spent += amount
	if err := t.replaceActive(ctx, key, user, b); err != nil {
		return nil, err
	}
	if b.PercentUsed() >= b.AlertThreshold {
		return &Alert{Budget: *b}, nil
	}
	return nil, nil
}

// CheckAlerts scans the user's active budgets for threshold breaches.
func (t *Tracker) CheckAlerts(ctx context.Context, user string) ([]Alert, error) {
	budgets, err := t.List(ctx, user)
	if err != nil {
		return nil, err
	}
	var alerts []Alert
	for _, b := range budgets {
		if b.PercentUsed() >= b.AlertThreshold {
			alerts = append(alerts, Alert{Budget: b})
		}
	}
	return alerts, nil
}

// Delete retires the active budget for (key, user), keeping the row with
// status deleted for the record.
func (t *Tracker) Delete(ctx context.Context, key, user string) error {
	b, err := t.Get(ctx, key, user)
	if err != nil {
		return err
	}
	if b == nil {
		return models.NotFound("Budget for \"" + key + "\"")
	}
	retired := *b
	retired.Status = models.StatusDeleted
	return t.replaceActive(ctx, key, user, &retired)
}
