package tabular

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBoltStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}

	t.Run("absentTableHasNoRows", func(t *testing.T) {
		rows, err := store.ReadAll(ctx, "expenses")
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("ReadAll = %d rows, want 0", len(rows))
		}
	})

	t.Run("appendKeepsOrder", func(t *testing.T) {
		for _, id := range []string{"EXP-000001", "EXP-000002", "EXP-000003"} {
			if err := store.Append(ctx, "expenses", Row{id, "2026-08-24", "expense", "100.00"}); err != nil {
				t.Fatalf("Append(%s): %v", id, err)
			}
		}
		rows, err := store.ReadAll(ctx, "expenses")
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("ReadAll = %d rows, want 3", len(rows))
		}
		for i, want := range []string{"EXP-000001", "EXP-000002", "EXP-000003"} {
			if rows[i][0] != want {
				t.Errorf("rows[%d][0] = %q, want %q", i, rows[i][0], want)
			}
		}
	})

	t.Run("deleteRowShiftsTheRest", func(t *testing.T) {
		if err := store.DeleteRow(ctx, "expenses", 1); err != nil {
			t.Fatalf("DeleteRow: %v", err)
		}
		rows, err := store.ReadAll(ctx, "expenses")
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(rows) != 2 || rows[0][0] != "EXP-000001" || rows[1][0] != "EXP-000003" {
			t.Errorf("rows after delete = %v", rows)
		}
	})

	t.Run("deleteOutOfRange", func(t *testing.T) {
		if err := store.DeleteRow(ctx, "expenses", 7); err == nil {
			t.Error("DeleteRow(7) = nil, want error")
		}
		if err := store.DeleteRow(ctx, "ghosts", 0); err == nil {
			t.Error("DeleteRow on absent table = nil, want error")
		}
	})

	t.Run("rowsSurviveReopen", func(t *testing.T) {
		if err := store.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		reopened, err := OpenBolt(path)
		if err != nil {
			t.Fatalf("OpenBolt: %v", err)
		}
		defer reopened.Close()
		rows, err := reopened.ReadAll(ctx, "expenses")
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(rows) != 2 || rows[0][0] != "EXP-000001" {
			t.Errorf("rows after reopen = %v", rows)
		}
	})
}

func TestNewStoreBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := NewStore(ctx, Options{Backend: "memory"})
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("NewStore = %T, want *MemoryStore", store)
		}
	})
	t.Run("boltIsTheDefault", func(t *testing.T) {
		store, err := NewStore(ctx, Options{BoltPath: filepath.Join(t.TempDir(), "x.db")})
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*BoltStore); !ok {
			t.Errorf("NewStore = %T, want *BoltStore", store)
		}
	})
	t.Run("unknownBackend", func(t *testing.T) {
		if _, err := NewStore(ctx, Options{Backend: "etcd"}); err == nil {
			t.Error("NewStore(etcd) = nil error, want failure")
		}
	})
}
