package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/24K-GA/AI-Course-EvalMate/internal/infra/memory"
	transport "github.com/24K-GA/AI-Course-EvalMate/internal/transport/http"
)

func TestClientAgainstDataAPI(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(transport.NewDataHandler(memory.NewDocumentStore()).Routes())
	defer server.Close()

	client := NewClient(server.URL+"/api", time.Second)
	if err := client.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	if err := client.Put(ctx, domain.CollectionTeams, json.RawMessage(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := client.Get(ctx, domain.CollectionTeams)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var teams []domain.Team
	if err := json.Unmarshal(got, &teams); err != nil || len(teams) != 1 || teams[0].ID != "t1" {
		t.Fatalf("unexpected teams %s (%v)", got, err)
	}

	doc, err := client.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := doc[domain.CollectionSession]; !ok {
		t.Fatalf("expected session in snapshot")
	}

	if _, err := client.Get(ctx, "missing"); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := client.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
}

func TestClientMalformedBodyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Get(context.Background(), "teams"); !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("expected not found for malformed body, got %v", err)
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Snapshot(context.Background()); err == nil {
		t.Fatalf("expected error on 500")
	}
	if err := client.Put(context.Background(), "teams", json.RawMessage(`[]`)); err == nil {
		t.Fatalf("expected put error on 500")
	}
}
