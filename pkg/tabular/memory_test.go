package tabular

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryFailNextIsSingleShot(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	store.FailNext = errors.New("disk full")

	if err := store.Append(ctx, "expenses", Row{"EXP-000001"}); err == nil {
		t.Fatal("Append = nil, want the injected error")
	}
	if err := store.Append(ctx, "expenses", Row{"EXP-000001"}); err != nil {
		t.Fatalf("second Append = %v, want nil", err)
	}
	rows, err := store.ReadAll(ctx, "expenses")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("ReadAll = %d rows, want just the retried append", len(rows))
	}
}

func TestMemoryCopiesRows(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	original := Row{"EXP-000001", "2026-08-24"}
	if err := store.Append(ctx, "expenses", original); err != nil {
		t.Fatalf("Append: %v", err)
	}
	original[0] = "clobbered"

	rows, err := store.ReadAll(ctx, "expenses")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if rows[0][0] != "EXP-000001" {
		t.Errorf("stored row = %q, caller mutation leaked in", rows[0][0])
	}
}

func TestMemoryDeleteRow(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	for _, id := range []string{"a", "b", "c"} {
		if err := store.Append(ctx, "expenses", Row{id}); err != nil {
			t.Fatalf("Append(%s): %v", id, err)
		}
	}

	if err := store.DeleteRow(ctx, "expenses", 1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	rows, _ := store.ReadAll(ctx, "expenses")
	if len(rows) != 2 || rows[0][0] != "a" || rows[1][0] != "c" {
		t.Errorf("rows after delete = %v", rows)
	}
	if err := store.DeleteRow(ctx, "expenses", 5); err == nil {
		t.Error("DeleteRow(5) = nil, want out of range error")
	}
}
