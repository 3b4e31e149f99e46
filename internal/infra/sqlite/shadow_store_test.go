package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestShadowStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shadow.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Save(ctx, "teams", json.RawMessage(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "teams", json.RawMessage(`[{"id":"t2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Load(ctx, "teams")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"t2"}]` {
		t.Fatalf("expected latest value, got %s", got)
	}
}

func TestShadowStoreClear(t *testing.T) {
	ctx := context.Background()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if _, ok, _ := store.Load(ctx, "session"); ok {
		t.Fatalf("expected missing value")
	}
	_ = store.Save(ctx, "session", json.RawMessage(`{"timeLeft":600}`))
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "session"); ok {
		t.Fatalf("expected value cleared")
	}
}
