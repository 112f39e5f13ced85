package models

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("validationShowsMessageAsIs", func(t *testing.T) {
		err := Validationf("❌ Format: +sale [amount] [description]")
		if !IsValidation(err) {
			t.Error("IsValidation = false")
		}
		if got, want := err.Error(), "❌ Format: +sale [amount] [description]"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
	t.Run("notFoundNamesTheMissingThing", func(t *testing.T) {
		err := NotFound("Transaction EXP-4F09AC")
		if !IsNotFound(err) {
			t.Error("IsNotFound = false")
		}
		if got, want := err.Error(), "Transaction EXP-4F09AC not found"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
	t.Run("storeWrapsTheCause", func(t *testing.T) {
		cause := errors.New("bolt: file locked")
		err := Storef("saving transaction", cause)
		if !IsStore(err) {
			t.Error("IsStore = false")
		}
		if !errors.Is(err, cause) {
			t.Error("cause not reachable through Unwrap")
		}
		if got, want := err.Error(), "store saving transaction: bolt: file locked"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
	t.Run("storefIsNilSafe", func(t *testing.T) {
		if err := Storef("anything", nil); err != nil {
			t.Errorf("Storef(nil) = %v, want nil", err)
		}
	})
	t.Run("storefDoesNotDoubleWrap", func(t *testing.T) {
		inner := Storef("reading rows", errors.New("gone"))
		outer := Storef("building report", pkgerrors.Wrap(inner, "report"))
		if got, want := outer.Error(), "report: store reading rows: gone"; got != want {
			t.Errorf("Error() = %q, want the original op kept: %q", got, want)
		}
	})
	t.Run("kindsDoNotOverlap", func(t *testing.T) {
		if IsValidation(NotFound("x")) || IsNotFound(Validationf("x")) || IsStore(Validationf("x")) {
			t.Error("error kinds leaked into each other")
		}
	})
}

func TestBudgetDerivedFields(t *testing.T) {
	b := Budget{Amount: 1000, Spent: 850}
	if got, want := b.Remaining(), 150.0; got != want {
		t.Errorf("Remaining = %.2f, want %.2f", got, want)
	}
	if got, want := b.PercentUsed(), 85.0; got != want {
		t.Errorf("PercentUsed = %.2f, want %.2f", got, want)
	}
	if got := (Budget{}).PercentUsed(); got != 0 {
		t.Errorf("PercentUsed on zero budget = %.2f, want 0", got)
	}
}

func TestTransactionRowRejectsGarbage(t *testing.T) {
	if _, err := TransactionFromRow([]string{"EXP-4F09AC"}); err == nil {
		t.Error("short row accepted")
	}
	row := Transaction{ID: "EXP-4F09AC", Date: "2026-08-24", Type: TypeExpense, Amount: 200}.Row()
	row[3] = "lots"
	if _, err := TransactionFromRow(row); err == nil {
		t.Error("unparseable amount accepted")
	}
}
