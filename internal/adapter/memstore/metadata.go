package memstore

import (
	"regindex/internal/domain"
)

// MetadataStore is the in-memory path-keyed record of indexed entities
// plus the monotonic vector id counter. It is the authoritative copy;
// the bolt snapshot only mirrors it.
//
// No internal locking: the engine assumes a single writer and the
// service facade holds the lock around all access.
type MetadataStore struct {
	entries map[string]domain.IndexedEntity
	nextID  int64
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		entries: make(map[string]domain.IndexedEntity),
	}
}

func (s *MetadataStore) Get(path string) (domain.IndexedEntity, bool) {
	entity, ok := s.entries[path]
	return entity, ok
}

func (s *MetadataStore) Put(entity domain.IndexedEntity) {
	s.entries[entity.Path] = entity
}

// Delete removes the entry for path, reporting whether it existed.
func (s *MetadataStore) Delete(path string) bool {
	_, ok := s.entries[path]
	delete(s.entries, path)
	return ok
}

func (s *MetadataStore) Len() int {
	return len(s.entries)
}

// All returns a copy of every live entry.
func (s *MetadataStore) All() []domain.IndexedEntity {
	entities := make([]domain.IndexedEntity, 0, len(s.entries))
	for _, entity := range s.entries {
		entities = append(entities, entity)
	}
	return entities
}

// AllocateID returns the next unused vector id and advances the counter.
// Ids are never reused, even after removal.
func (s *MetadataStore) AllocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MetadataStore) NextID() int64 {
	return s.nextID
}

// SetNextID restores the counter from a loaded snapshot.
func (s *MetadataStore) SetNextID(id int64) {
	s.nextID = id
}

// PathsByID builds the reverse vector-id index used to resolve search
// hits. Rebuilt per call; the store is memory-resident so O(n) is fine.
func (s *MetadataStore) PathsByID() map[int64]string {
	paths := make(map[int64]string, len(s.entries))
	for path, entity := range s.entries {
		paths[entity.VectorID] = path
	}
	return paths
}

// LiveIDs returns the set of vector ids referenced by live entries.
func (s *MetadataStore) LiveIDs() map[int64]bool {
	ids := make(map[int64]bool, len(s.entries))
	for _, entity := range s.entries {
		ids[entity.VectorID] = true
	}
	return ids
}
