package usecase

import (
	"fmt"
	"log/slog"

	"regindex/internal/adapter/memstore"
	"regindex/internal/adapter/store"
	"regindex/internal/domain"
	"regindex/internal/port"
)

// IndexManager orchestrates entity upserts and removals, keeping the
// vector index and the metadata store synchronized and persisting both
// after every committing mutation.
//
// Single-writer: callers serialize mutations (the Service facade holds
// the lock).
type IndexManager struct {
	index    port.VectorIndex
	meta     *memstore.MetadataStore
	embedder port.Embedder
	store    *store.BoltStore
	log      *slog.Logger
}

// NewIndexManager wires a manager. store may be nil, which disables
// persistence (useful for ephemeral indexes and tests).
func NewIndexManager(
	index port.VectorIndex,
	meta *memstore.MetadataStore,
	embedder port.Embedder,
	boltStore *store.BoltStore,
	logger *slog.Logger,
) *IndexManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexManager{
		index:    index,
		meta:     meta,
		embedder: embedder,
		store:    boltStore,
		log:      logger,
	}
}

// UpsertServer adds or updates a tool-bearing server under path.
func (m *IndexManager) UpsertServer(path string, desc domain.ServerDescriptor, enabled bool) error {
	return m.upsert(domain.IndexedEntity{
		Path:          path,
		Type:          domain.EntityServer,
		EmbeddingText: ServerEmbeddingText(desc),
		Enabled:       enabled,
		Server:        &desc,
	})
}

// UpsertAgent adds or updates an agent under path.
func (m *IndexManager) UpsertAgent(path string, desc domain.AgentDescriptor, enabled bool) error {
	return m.upsert(domain.IndexedEntity{
		Path:          path,
		Type:          domain.EntityAgent,
		EmbeddingText: AgentEmbeddingText(desc),
		Enabled:       enabled,
		Agent:         &desc,
	})
}

func (m *IndexManager) upsert(entity domain.IndexedEntity) error {
	if m.embedder == nil || m.index == nil {
		m.log.Error("cannot upsert entity, engine not initialized", "path", entity.Path)
		return domain.ErrUnavailable
	}

	existing, exists := m.meta.Get(entity.Path)
	needsEmbedding := true

	if exists {
		entity.VectorID = existing.VectorID
		if existing.EmbeddingText == entity.EmbeddingText {
			needsEmbedding = false
		} else {
			m.log.Info("embedding text changed, re-embedding", "path", entity.Path)
		}
	} else {
		entity.VectorID = m.meta.AllocateID()
		m.log.Info("new entity", "path", entity.Path, "vector_id", entity.VectorID, "type", entity.Type)
	}

	if needsEmbedding {
		vectors, err := m.embedder.Embed([]string{entity.EmbeddingText})
		if err != nil {
			m.log.Error("failed to embed entity", "path", entity.Path, "error", err)
			return fmt.Errorf("embedding %s: %w", entity.Path, err)
		}
		if len(vectors) == 0 {
			m.log.Error("embedder returned no vectors", "path", entity.Path)
			return fmt.Errorf("embedding %s: empty result", entity.Path)
		}

		if exists {
			// Zero removed is fine: the old vector may be missing after
			// an interrupted earlier update.
			if removed := m.index.Remove(entity.VectorID); removed == 0 {
				m.log.Debug("no old vector to replace", "path", entity.Path, "vector_id", entity.VectorID)
			}
		}
		if err := m.index.Add(entity.VectorID, vectors[0]); err != nil {
			m.log.Error("failed to add vector", "path", entity.Path, "vector_id", entity.VectorID, "error", err)
			return fmt.Errorf("indexing %s: %w", entity.Path, err)
		}
	}

	if exists && !needsEmbedding && existing.SameContent(entity) {
		m.log.Debug("entity unchanged, skipping write", "path", entity.Path)
		return nil
	}

	m.meta.Put(entity)
	return m.persist()
}

// Remove drops the metadata entry for path and persists. An unknown path
// is a no-op. The vector itself stays in the index (ids are never reused
// so orphans cannot collide); Compact reclaims them.
func (m *IndexManager) Remove(path string) error {
	existing, exists := m.meta.Get(path)
	if !exists {
		m.log.Warn("entity not indexed, nothing to remove", "path", path)
		return nil
	}

	m.meta.Delete(path)
	m.log.Info("removed entity", "path", path, "vector_id", existing.VectorID)
	return m.persist()
}

// Compact removes vectors no longer referenced by any live metadata entry
// and persists if anything was reclaimed. Returns the number of vectors
// removed.
func (m *IndexManager) Compact() (int, error) {
	if m.index == nil {
		return 0, domain.ErrUnavailable
	}

	live := m.meta.LiveIDs()
	removed := 0
	for _, id := range m.index.IDs() {
		if !live[id] {
			removed += m.index.Remove(id)
		}
	}

	if removed == 0 {
		return 0, nil
	}
	m.log.Info("compacted index", "vectors_removed", removed)
	return removed, m.persist()
}

// persist writes the index blob and the metadata sidecar together. On
// failure the in-memory state stays authoritative until the next
// successful save.
func (m *IndexManager) persist() error {
	if m.store == nil {
		return nil
	}

	blob, err := m.index.Serialize()
	if err != nil {
		m.log.Error("failed to serialize index", "error", err)
		return fmt.Errorf("serializing index: %w", err)
	}

	snap := store.Snapshot{
		IndexBlob: blob,
		Entities:  m.meta.All(),
		NextID:    m.meta.NextID(),
	}
	if err := m.store.SaveSnapshot(snap); err != nil {
		m.log.Error("failed to persist snapshot", "error", err)
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

// Stats describes the live state of the engine.
type Stats struct {
	Entities  int
	Vectors   int
	Orphans   int
	Dimension int
	NextID    int64
	Model     string
}

func (m *IndexManager) Stats() Stats {
	stats := Stats{
		Entities: m.meta.Len(),
		NextID:   m.meta.NextID(),
	}
	if m.index != nil {
		stats.Vectors = m.index.Total()
		stats.Dimension = m.index.Dimension()
		live := m.meta.LiveIDs()
		for _, id := range m.index.IDs() {
			if !live[id] {
				stats.Orphans++
			}
		}
	}
	if m.embedder != nil {
		stats.Model = m.embedder.ModelName()
	}
	return stats
}
