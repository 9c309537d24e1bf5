package store

import (
	"path/filepath"
	"testing"

	"regindex/internal/domain"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_FreshDatabaseIsEmpty(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(snap.IndexBlob) != 0 || len(snap.Entities) != 0 || snap.NextID != 0 {
		t.Errorf("fresh database should yield an empty snapshot, got %+v", snap)
	}
}

func TestBoltStore_SnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved := Snapshot{
		IndexBlob: []byte("opaque-blob"),
		NextID:    7,
		Entities: []domain.IndexedEntity{
			{
				Path:          "/weather",
				VectorID:      3,
				Type:          domain.EntityServer,
				EmbeddingText: "Name: WeatherAPI",
				Enabled:       true,
				Server: &domain.ServerDescriptor{
					Name:        "WeatherAPI",
					Description: "get forecasts",
					Tags:        []string{"weather"},
				},
			},
			{
				Path:     "/agents/bot1",
				VectorID: 5,
				Type:     domain.EntityAgent,
				Enabled:  false,
				Agent: &domain.AgentDescriptor{
					Name:        "Bot1",
					Description: "schedules meetings",
				},
			},
		},
	}
	if err := s.SaveSnapshot(saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(loaded.IndexBlob) != "opaque-blob" {
		t.Errorf("index blob lost: %q", loaded.IndexBlob)
	}
	if loaded.NextID != 7 {
		t.Errorf("expected next id 7, got %d", loaded.NextID)
	}
	if len(loaded.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(loaded.Entities))
	}

	byPath := make(map[string]domain.IndexedEntity)
	for _, e := range loaded.Entities {
		byPath[e.Path] = e
	}

	server, ok := byPath["/weather"]
	if !ok {
		t.Fatal("/weather missing from snapshot")
	}
	if server.VectorID != 3 || server.Type != domain.EntityServer || !server.Enabled {
		t.Errorf("server record mangled: %+v", server)
	}
	if server.Server == nil || server.Server.Name != "WeatherAPI" {
		t.Errorf("server payload lost: %+v", server.Server)
	}
	if server.Agent != nil {
		t.Error("server record should not carry an agent payload")
	}

	agent, ok := byPath["/agents/bot1"]
	if !ok {
		t.Fatal("/agents/bot1 missing from snapshot")
	}
	if agent.Enabled {
		t.Error("disabled flag lost on round trip")
	}
	if agent.Agent == nil || agent.Agent.Description != "schedules meetings" {
		t.Errorf("agent payload lost: %+v", agent.Agent)
	}
}

func TestBoltStore_SaveReplacesPreviousState(t *testing.T) {
	s := newTestStore(t)

	first := Snapshot{
		IndexBlob: []byte("v1"),
		NextID:    2,
		Entities: []domain.IndexedEntity{
			{Path: "/old", VectorID: 0, Type: domain.EntityServer, Server: &domain.ServerDescriptor{Name: "old"}},
			{Path: "/gone", VectorID: 1, Type: domain.EntityServer, Server: &domain.ServerDescriptor{Name: "gone"}},
		},
	}
	if err := s.SaveSnapshot(first); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	second := Snapshot{
		IndexBlob: []byte("v2"),
		NextID:    3,
		Entities: []domain.IndexedEntity{
			{Path: "/old", VectorID: 2, Type: domain.EntityServer, Server: &domain.ServerDescriptor{Name: "renamed"}},
		},
	}
	if err := s.SaveSnapshot(second); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := s.LoadSnapshot()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(loaded.IndexBlob) != "v2" {
		t.Errorf("stale blob survived: %q", loaded.IndexBlob)
	}
	if len(loaded.Entities) != 1 || loaded.Entities[0].Path != "/old" {
		t.Errorf("stale entities survived: %+v", loaded.Entities)
	}
	if loaded.Entities[0].Server.Name != "renamed" {
		t.Errorf("entity not overwritten: %+v", loaded.Entities[0].Server)
	}
}

func TestDecodeEntity_RejectsUnknownSchemaVersion(t *testing.T) {
	_, err := decodeEntity("/x", []byte(`{"schema_version":99,"vector_id":0,"entity_type":"mcp_server"}`))
	if err == nil {
		t.Error("expected an error for an unsupported schema version")
	}
}
