// Package recurring decides when recurring templates fall due and keeps
// their last-posted dates. Posting itself goes through the transaction
// recorder; this package only answers "what is due now".
package recurring

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

// Short months never reach day 29-31; a monthly template anchored past
// day 28 becomes due on the 28th instead of skipping the month.
const monthlyDayCap = 28

// Scheduler reads and writes the recurring table.
type Scheduler struct {
	store tabular.Store
	now   func() time.Time
}

// NewScheduler wires the scheduler to its table.
func NewScheduler(store tabular.Store, now func() time.Time) *Scheduler {
	return &Scheduler{store: store, now: now}
}

// Add stores a template. It starts unposted.
func (s *Scheduler) Add(ctx context.Context, typ string, amount float64, frequency, description, user string) (models.RecurringTemplate, error) {
	tmpl := models.RecurringTemplate{
		Type:         typ,
		Amount:       amount,
		Description:  description,
		Frequency:    frequency,
		LastRecorded: models.LastNever,
		User:         user,
		Status:       models.StatusActive,
	}
	if err := s.store.Append(ctx, models.TableRecurring, tmpl.Row()); err != nil {
		return models.RecurringTemplate{}, models.Storef("writing recurring", err)
	}
	return tmpl, nil
}

// List returns the user's active templates.
func (s *Scheduler) List(ctx context.Context, user string) ([]models.RecurringTemplate, error) {
	rows, err := s.store.ReadAll(ctx, models.TableRecurring)
	if err != nil {
		return nil, models.Storef("reading recurring", err)
	}
	var out []models.RecurringTemplate
	for _, row := range rows {
		tmpl, err := models.RecurringFromRow(row)
		if err != nil {
			return nil, models.Storef("decoding recurring row", err)
		}
		if tmpl.User == user && tmpl.Status == models.StatusActive {
			out = append(out, tmpl)
		}
	}
	return out, nil
}

// IsDue reports whether a template should post today. Pure; errors only on
// an unparseable stored date.
func IsDue(tmpl models.RecurringTemplate, today time.Time) (bool, error) {
	if tmpl.LastRecorded == models.LastNever {
		return true, nil
	}
	last, err := time.Parse(models.DateStamp, tmpl.LastRecorded)
	if err != nil {
		return false, errors.Wrapf(err, "bad last-recorded date %q", tmpl.LastRecorded)
	}
	switch tmpl.Frequency {
	case models.PeriodDaily:
		return today.Format(models.DateStamp) > tmpl.LastRecorded, nil
	case models.PeriodWeekly:
		return !today.Before(last.AddDate(0, 0, 7)), nil
	case models.PeriodMonthly:
		sameMonth := today.Month() == last.Month() && today.Year() == last.Year()
		if sameMonth {
			return false, nil
		}
		anchor := last.Day()
		if anchor > monthlyDayCap {
			anchor = monthlyDayCap
		}
		return today.Day() >= anchor, nil
	}
	return false, errors.Errorf("unknown frequency %q", tmpl.Frequency)
}

// DueItems returns the user's templates that should post now.
func (s *Scheduler) DueItems(ctx context.Context, user string) ([]models.RecurringTemplate, error) {
	all, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	today := s.now()
	var due []models.RecurringTemplate
	for _, tmpl := range all {
		ok, err := IsDue(tmpl, today)
		if err != nil {
			return nil, models.Storef("checking due", err)
		}
		if ok {
			due = append(due, tmpl)
		}
	}
	return due, nil
}

// MarkRecorded stamps today onto the stored template after a post.
func (s *Scheduler) MarkRecorded(ctx context.Context, tmpl models.RecurringTemplate) error {
	rows, err := s.store.ReadAll(ctx, models.TableRecurring)
	if err != nil {
		return models.Storef("reading recurring", err)
	}
	for i, row := range rows {
		stored, err := models.RecurringFromRow(row)
		if err != nil {
			return models.Storef("decoding recurring row", err)
		}
		if stored == tmpl {
			if err := s.store.DeleteRow(ctx, models.TableRecurring, i); err != nil {
				return models.Storef("updating recurring", err)
			}
			stored.LastRecorded = s.now().Format(models.DateStamp)
			if err := s.store.Append(ctx, models.TableRecurring, stored.Row()); err != nil {
				return models.Storef("updating recurring", err)
			}
			return nil
		}
	}
	return models.NotFound("Recurring template \"" + tmpl.Description + "\"")
}
