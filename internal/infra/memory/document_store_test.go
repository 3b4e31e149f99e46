package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

func TestDocumentStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(doc) != len(domain.Collections) {
		t.Fatalf("expected default document with %d keys, got %d", len(domain.Collections), len(doc))
	}

	if err := store.Put(ctx, domain.CollectionTeams, json.RawMessage(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, domain.CollectionTeams)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"t1"}]` {
		t.Fatalf("unexpected teams %s", got)
	}

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ = store.Get(ctx, domain.CollectionTeams)
	if string(got) != `[]` {
		t.Fatalf("expected empty teams after reset, got %s", got)
	}
}

func TestShadowStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	shadow := NewShadowStore()

	if _, ok, _ := shadow.Load(ctx, "teams"); ok {
		t.Fatalf("expected empty shadow")
	}
	_ = shadow.Save(ctx, "teams", json.RawMessage(`[]`))
	if v, ok, _ := shadow.Load(ctx, "teams"); !ok || string(v) != `[]` {
		t.Fatalf("expected saved value, got %s ok=%v", v, ok)
	}
	_ = shadow.Clear(ctx)
	if _, ok, _ := shadow.Load(ctx, "teams"); ok {
		t.Fatalf("expected shadow cleared")
	}
}
