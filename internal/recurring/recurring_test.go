package recurring

import (
	"context"
	"testing"
	"time"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

func tmpl(frequency, last string) models.RecurringTemplate {
	return models.RecurringTemplate{
		Type:         models.TypeExpense,
		Amount:       150,
		Description:  "shop rent",
		Frequency:    frequency,
		LastRecorded: last,
		User:         "ama",
		Status:       models.StatusActive,
	}
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateStamp, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestIsDue(t *testing.T) {
	t.Run("neverPostedIsDue", func(t *testing.T) {
		due, err := IsDue(tmpl(models.PeriodMonthly, models.LastNever), day("2026-08-24"))
		if err != nil || !due {
			t.Errorf("got due=%v err=%v, want due", due, err)
		}
	})

	t.Run("daily", func(t *testing.T) {
		due, err := IsDue(tmpl(models.PeriodDaily, "2026-08-23"), day("2026-08-24"))
		if err != nil || !due {
			t.Errorf("yesterday: got due=%v err=%v, want due", due, err)
		}
		due, err = IsDue(tmpl(models.PeriodDaily, "2026-08-24"), day("2026-08-24"))
		if err != nil || due {
			t.Errorf("same day: got due=%v err=%v, want not due", due, err)
		}
	})

	t.Run("weeklyNeedsSevenDays", func(t *testing.T) {
		due, err := IsDue(tmpl(models.PeriodWeekly, "2026-08-17"), day("2026-08-23"))
		if err != nil || due {
			t.Errorf("six days: got due=%v err=%v, want not due", due, err)
		}
		due, err = IsDue(tmpl(models.PeriodWeekly, "2026-08-17"), day("2026-08-24"))
		if err != nil || !due {
			t.Errorf("seven days: got due=%v err=%v, want due", due, err)
		}
	})

	t.Run("monthlySameMonthNeverDue", func(t *testing.T) {
		due, err := IsDue(tmpl(models.PeriodMonthly, "2026-08-01"), day("2026-08-28"))
		if err != nil || due {
			t.Errorf("got due=%v err=%v, want not due within the month", due, err)
		}
	})

	t.Run("monthlyDayThirtyOneCapsAtTwentyEight", func(t *testing.T) {
		anchored := tmpl(models.PeriodMonthly, "2026-01-31")
		due, err := IsDue(anchored, day("2026-02-27"))
		if err != nil || due {
			t.Errorf("feb 27: got due=%v err=%v, want not due", due, err)
		}
		due, err = IsDue(anchored, day("2026-02-28"))
		if err != nil || !due {
			t.Errorf("feb 28: got due=%v err=%v, want due", due, err)
		}
	})

	t.Run("monthlyMidMonthAnchor", func(t *testing.T) {
		anchored := tmpl(models.PeriodMonthly, "2026-08-15")
		due, err := IsDue(anchored, day("2026-09-14"))
		if err != nil || due {
			t.Errorf("sep 14: got due=%v err=%v, want not due", due, err)
		}
		due, err = IsDue(anchored, day("2026-09-15"))
		if err != nil || !due {
			t.Errorf("sep 15: got due=%v err=%v, want due", due, err)
		}
	})

	t.Run("badStoredDate", func(t *testing.T) {
		if _, err := IsDue(tmpl(models.PeriodDaily, "not-a-date"), day("2026-08-24")); err == nil {
			t.Errorf("want error for unparseable date")
		}
	})

	t.Run("unknownFrequency", func(t *testing.T) {
		if _, err := IsDue(tmpl("fortnightly", "2026-08-01"), day("2026-08-24")); err == nil {
			t.Errorf("want error for unknown frequency")
		}
	})
}

func TestDueItemsAndMarkRecorded(t *testing.T) {
	now := day("2026-08-24")
	store := tabular.NewMemory()
	s := NewScheduler(store, func() time.Time { return now })
	ctx := context.Background()

	added, err := s.Add(ctx, models.TypeExpense, 150, models.PeriodMonthly, "shop rent", "ama")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.LastRecorded != models.LastNever {
		t.Errorf("fresh template: got %q, want never", added.LastRecorded)
	}

	due, err := s.DueItems(ctx, "ama")
	if err != nil || len(due) != 1 {
		t.Fatalf("due items: got %v err=%v, want one", due, err)
	}
	if due2, err := s.DueItems(ctx, "kojo"); err != nil || len(due2) != 0 {
		t.Errorf("other user: got %v err=%v, want none", due2, err)
	}

	if err := s.MarkRecorded(ctx, due[0]); err != nil {
		t.Fatalf("mark recorded: %v", err)
	}
	after, err := s.DueItems(ctx, "ama")
	if err != nil || len(after) != 0 {
		t.Errorf("after posting: got %v err=%v, want none due", after, err)
	}

	listed, err := s.List(ctx, "ama")
	if err != nil || len(listed) != 1 {
		t.Fatalf("list: got %v err=%v", listed, err)
	}
	if listed[0].LastRecorded != "2026-08-24" {
		t.Errorf("last recorded: got %q, want 2026-08-24", listed[0].LastRecorded)
	}

	// Marking a template that no longer matches any stored row fails loudly.
	if err := s.MarkRecorded(ctx, due[0]); !models.IsNotFound(err) {
		t.Errorf("stale mark: got %v, want not-found", err)
	}
}
