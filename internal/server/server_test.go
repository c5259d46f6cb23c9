package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kioskdash/kioskdash/internal/dashboard"
	"github.com/kioskdash/kioskdash/internal/store"
)

func TestHealthEndpoint(t *testing.T) {
	app := New(store.NewContextStore(4), t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	contexts := store.NewContextStore(4)
	app := New(contexts, t.TempDir())

	// Before any generation the API reports not found.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d before first generation", resp.StatusCode, http.StatusNotFound)
	}

	contexts.Save(store.Generation{
		RunID:   "run-1",
		At:      time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
		Context: dashboard.Context{"last_updated": "10:00:00"},
	})

	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var gen store.Generation
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if gen.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", gen.RunID)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	contexts := store.NewContextStore(4)
	app := New(contexts, t.TempDir())

	contexts.Save(store.Generation{RunID: "a"})
	contexts.Save(store.Generation{RunID: "b"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		Generations []store.Generation `json:"generations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Generations) != 2 {
		t.Errorf("generations = %d, want 2", len(payload.Generations))
	}
}
