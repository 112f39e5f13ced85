package budget

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Livo-Africa/accountbot/internal/models"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

func TestRecordSpendThresholds(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(tabular.NewMemory(), func() time.Time { return now })
	ctx := context.Background()

	if _, err := tr.Set(ctx, "office", 1000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("set: %v", err)
	}

	t.Run("belowThresholdStaysQuiet", func(t *testing.T) {
		alert, err := tr.RecordSpend(ctx, "office", "ama", 700)
		if err != nil || alert != nil {
			t.Errorf("at 700: got %+v err=%v, want no alert", alert, err)
		}
		alert, err = tr.RecordSpend(ctx, "office", "ama", 50)
		if err != nil || alert != nil {
			t.Errorf("at 750: got %+v err=%v, want no alert", alert, err)
		}
	})

	t.Run("crossingThresholdAlerts", func(t *testing.T) {
		alert, err := tr.RecordSpend(ctx, "office", "ama", 100)
		if err != nil || alert == nil {
			t.Fatalf("at 850: got %+v err=%v, want an alert", alert, err)
		}
		if !strings.Contains(alert.String(), "🚨") {
			t.Errorf("alert text: got %q, want warning form", alert.String())
		}
	})

	t.Run("stillOverStillAlerts", func(t *testing.T) {
		alert, err := tr.RecordSpend(ctx, "office", "ama", 50)
		if err != nil || alert == nil {
			t.Fatalf("at 900: got %+v err=%v, want an alert again", alert, err)
		}
	})

	t.Run("exceededChangesTone", func(t *testing.T) {
		alert, err := tr.RecordSpend(ctx, "office", "ama", 200)
		if err != nil || alert == nil {
			t.Fatalf("at 1100: got %+v err=%v, want an alert", alert, err)
		}
		if !strings.Contains(alert.String(), "🔴") {
			t.Errorf("alert text: got %q, want exceeded form", alert.String())
		}
	})
}

func TestRecordSpendWithoutBudget(t *testing.T) {
	tr := NewTracker(tabular.NewMemory(), time.Now)
	alert, err := tr.RecordSpend(context.Background(), "transport", "ama", 50)
	if err != nil || alert != nil {
		t.Errorf("got %+v err=%v, want silent nil", alert, err)
	}
}

func TestSetReplacesActive(t *testing.T) {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	store := tabular.NewMemory()
	tr := NewTracker(store, func() time.Time { return now })
	ctx := context.Background()

	if _, err := tr.Set(ctx, "office", 1000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := tr.RecordSpend(ctx, "office", "ama", 400); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if _, err := tr.Set(ctx, "office", 2000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	rows, _ := store.ReadAll(ctx, models.TableBudgets)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	b, err := tr.Get(ctx, "office", "ama")
	if err != nil || b == nil {
		t.Fatalf("get: %+v err=%v", b, err)
	}
	if b.Amount != 2000 || b.Spent != 0 {
		t.Errorf("got %+v, want fresh 2000 budget", b)
	}
}

func TestRolloverResetsLapsedPeriod(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	tr := NewTracker(tabular.NewMemory(), func() time.Time { return now })
	ctx := context.Background()

	if _, err := tr.Set(ctx, "office", 1000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := tr.RecordSpend(ctx, "office", "ama", 900); err != nil {
		t.Fatalf("spend: %v", err)
	}

	now = time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	b, err := tr.Get(ctx, "office", "ama")
	if err != nil || b == nil {
		t.Fatalf("get after lapse: %+v err=%v", b, err)
	}
	if b.Spent != 0 {
		t.Errorf("spent: got %v, want 0 after rollover", b.Spent)
	}
	if b.StartDate != "2026-02-20" || b.EndDate != "2026-03-19" {
		t.Errorf("window: got %s to %s, want 2026-02-20 to 2026-03-19", b.StartDate, b.EndDate)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	tr := NewTracker(tabular.NewMemory(), time.Now)
	ctx := context.Background()

	if _, err := tr.Set(ctx, "office", 1000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := tr.Get(ctx, "office", "kojo")
	if err != nil || b != nil {
		t.Errorf("got %+v err=%v, want nil for the other user", b, err)
	}
}

func TestDeleteRetiresRow(t *testing.T) {
	store := tabular.NewMemory()
	tr := NewTracker(store, time.Now)
	ctx := context.Background()

	if _, err := tr.Set(ctx, "office", 1000, models.PeriodMonthly, 80, "ama"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := tr.Delete(ctx, "office", "ama"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	b, err := tr.Get(ctx, "office", "ama")
	if err != nil || b != nil {
		t.Errorf("get after delete: got %+v err=%v, want nil", b, err)
	}
	rows, _ := store.ReadAll(ctx, models.TableBudgets)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want the retired row kept", len(rows))
	}
	kept, err := models.BudgetFromRow(rows[0])
	if err != nil || kept.Status != models.StatusDeleted {
		t.Errorf("kept row: %+v err=%v, want status deleted", kept, err)
	}

	if err := tr.Delete(ctx, "office", "ama"); !models.IsNotFound(err) {
		t.Errorf("second delete: got %v, want not-found", err)
	}
}
