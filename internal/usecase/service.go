package usecase

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"regindex/internal/adapter/cache"
	"regindex/internal/adapter/memstore"
	"regindex/internal/adapter/store"
	"regindex/internal/adapter/vector"
	"regindex/internal/domain"
	"regindex/internal/port"
)

// Service is the public face of the index engine: the mutation and query
// operations behind one read/write lock. Mutations (and their persistence)
// run exclusive; searches run shared and may be served from the query
// cache, which every mutation invalidates.
type Service struct {
	mu      sync.RWMutex
	manager *IndexManager
	engine  *QueryEngine
	cache   *cache.SearchCache
	store   *store.BoltStore
	log     *slog.Logger
}

// ServiceOptions tunes the query cache.
type ServiceOptions struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewService opens (or creates) the snapshot database at dbPath and
// restores the engine state from it. An empty dbPath disables
// persistence. A stored index whose dimension disagrees with the
// embedder's is discarded and both structures start empty.
func NewService(dbPath string, embedder port.Embedder, opts ServiceOptions, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if embedder == nil {
		return nil, domain.ErrUnavailable
	}

	var boltStore *store.BoltStore
	var snap store.Snapshot
	if dbPath != "" {
		var err error
		boltStore, err = store.NewBoltStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot store: %w", err)
		}

		snap, err = boltStore.LoadSnapshot()
		if err != nil {
			// Unreadable snapshot: start empty rather than fail startup.
			logger.Error("failed to load snapshot, reinitializing empty", "error", err)
			snap = store.Snapshot{}
		}
	}

	index, meta := restoreState(snap, embedder.Dimension(), logger)

	svc := &Service{
		manager: NewIndexManager(index, meta, embedder, boltStore, logger),
		engine:  NewQueryEngine(index, meta, embedder, logger),
		cache:   cache.NewSearchCache(opts.CacheSize, opts.CacheTTL),
		store:   boltStore,
		log:     logger,
	}

	logger.Info("index engine ready",
		"entities", meta.Len(),
		"vectors", index.Total(),
		"dimension", index.Dimension(),
		"model", embedder.ModelName(),
	)
	return svc, nil
}

// restoreState rebuilds the vector index and metadata store from a
// snapshot, discarding both when the index blob is unreadable or its
// dimension does not match the embedder's.
func restoreState(snap store.Snapshot, dimension int, logger *slog.Logger) (port.VectorIndex, *memstore.MetadataStore) {
	meta := memstore.NewMetadataStore()

	if len(snap.IndexBlob) == 0 {
		return vector.NewFlatIndex(dimension), meta
	}

	index, err := vector.Deserialize(snap.IndexBlob)
	if err != nil {
		logger.Error("failed to load vector index, reinitializing empty", "error", err)
		return vector.NewFlatIndex(dimension), meta
	}
	if index.Dimension() != dimension {
		logger.Warn("stored index dimension differs from embedder, reinitializing empty",
			"stored", index.Dimension(), "expected", dimension)
		return vector.NewFlatIndex(dimension), meta
	}

	for _, entity := range snap.Entities {
		meta.Put(entity)
	}
	meta.SetNextID(snap.NextID)
	return index, meta
}

func (s *Service) UpsertServer(path string, desc domain.ServerDescriptor, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Invalidate()
	return s.manager.UpsertServer(path, desc, enabled)
}

func (s *Service) UpsertAgent(path string, desc domain.AgentDescriptor, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Invalidate()
	return s.manager.UpsertAgent(path, desc, enabled)
}

func (s *Service) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Invalidate()
	return s.manager.Remove(path)
}

func (s *Service) SearchMixed(query string, entityTypes []domain.EntityType, limit int) (domain.SearchResults, error) {
	if results, hit := s.cache.Get(query, entityTypes, limit); hit {
		return results, nil
	}

	// The generation is read under the same lock the search runs under;
	// a mutation that invalidates in between makes the Put a no-op.
	s.mu.RLock()
	gen := s.cache.Generation()
	results, err := s.engine.SearchMixed(query, entityTypes, limit)
	s.mu.RUnlock()
	if err != nil {
		return domain.SearchResults{}, err
	}

	s.cache.Put(query, entityTypes, limit, results, gen)
	return results, nil
}

func (s *Service) SearchAgents(query string, limit int) ([]domain.AgentResult, error) {
	results, err := s.SearchMixed(query, []domain.EntityType{domain.EntityAgent}, limit)
	if err != nil {
		return nil, err
	}
	return results.Agents, nil
}

func (s *Service) Compact() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Invalidate()
	return s.manager.Compact()
}

func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager.Stats()
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
