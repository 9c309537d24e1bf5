package usecase

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"regindex/internal/adapter/embedding"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_PersistAndReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	embedder := embedding.NewLocalEmbedder(64)

	svc, err := NewService(dbPath, embedder, ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if err := svc.UpsertServer("/weather", weatherServer(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertAgent("/agents/bot1", schedulerAgent(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reloaded, err := NewService(dbPath, embedding.NewLocalEmbedder(64), ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to reopen service: %v", err)
	}
	defer reloaded.Close()

	stats := reloaded.Stats()
	if stats.Entities != 2 {
		t.Errorf("expected 2 entities after reload, got %d", stats.Entities)
	}
	if stats.Vectors != 2 {
		t.Errorf("expected 2 vectors after reload, got %d", stats.Vectors)
	}
	if stats.NextID != 2 {
		t.Errorf("expected next id 2 after reload, got %d", stats.NextID)
	}

	results, err := reloaded.SearchMixed("forecast", nil, 10)
	if err != nil {
		t.Fatalf("search after reload failed: %v", err)
	}
	found := false
	for _, server := range results.Servers {
		if server.Path == "/weather" {
			found = true
			if server.Description != "get forecasts" {
				t.Errorf("payload not restored: %+v", server)
			}
		}
	}
	if !found {
		t.Error("reloaded index does not resolve /weather")
	}
}

func TestService_DimensionMismatchReinitializesEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")

	svc, err := NewService(dbPath, embedding.NewLocalEmbedder(64), ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if err := svc.UpsertServer("/weather", weatherServer(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// A different embedding dimension invalidates the stored index;
	// both structures restart empty.
	reloaded, err := NewService(dbPath, embedding.NewLocalEmbedder(32), ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to reopen service: %v", err)
	}
	defer reloaded.Close()

	stats := reloaded.Stats()
	if stats.Entities != 0 || stats.Vectors != 0 {
		t.Errorf("expected empty state after dimension change, got %+v", stats)
	}
	if stats.Dimension != 32 {
		t.Errorf("expected new dimension 32, got %d", stats.Dimension)
	}
}

func TestService_MutationInvalidatesCachedSearch(t *testing.T) {
	svc, err := NewService("", embedding.NewLocalEmbedder(64), ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	defer svc.Close()

	if err := svc.UpsertServer("/weather", weatherServer(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	first, err := svc.SearchMixed("forecast", nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(first.Servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(first.Servers))
	}

	second := weatherServer()
	second.Name = "BackupWeather"
	if err := svc.UpsertServer("/weather-2", second, true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	after, err := svc.SearchMixed("forecast", nil, 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(after.Servers) != 2 {
		t.Errorf("cached result served after mutation: got %d servers, want 2", len(after.Servers))
	}
}

func TestService_SearchAgentsConvenience(t *testing.T) {
	svc, err := NewService("", embedding.NewLocalEmbedder(64), ServiceOptions{}, testLogger())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	defer svc.Close()

	if err := svc.UpsertServer("/weather", weatherServer(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertAgent("/agents/bot1", schedulerAgent(), true); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	agents, err := svc.SearchAgents("calendar", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(agents) != 1 || agents[0].Path != "/agents/bot1" {
		t.Errorf("expected only /agents/bot1, got %+v", agents)
	}
}
