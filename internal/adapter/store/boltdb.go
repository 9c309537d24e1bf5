package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
	"regindex/internal/domain"
)

var (
	bucketIndex    = []byte("index")
	bucketEntities = []byte("entities")
	bucketState    = []byte("state")
	keyBlob        = []byte("blob")
	keyNextID      = []byte("next_id")
)

// schemaVersion tags every persisted entity record. Bump when the record
// layout changes and add a migration branch in decodeEntity.
const schemaVersion = 1

// BoltStore persists the two index artifacts in one bolt file: the opaque
// vector index blob and the entity metadata sidecar with the id counter.
// A snapshot save writes both in a single transaction.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketIndex, bucketEntities, bucketState} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Snapshot is the full persisted state of the engine.
type Snapshot struct {
	IndexBlob []byte
	Entities  []domain.IndexedEntity
	NextID    int64
}

// entityRecord is the versioned on-disk form of an IndexedEntity. The
// payload is tagged by entity type: exactly one of Server or Agent is set.
type entityRecord struct {
	Version       int                      `json:"schema_version"`
	VectorID      int64                    `json:"vector_id"`
	EntityType    domain.EntityType        `json:"entity_type"`
	EmbeddingText string                   `json:"text_for_embedding"`
	Enabled       bool                     `json:"is_enabled"`
	Server        *domain.ServerDescriptor `json:"server,omitempty"`
	Agent         *domain.AgentDescriptor  `json:"agent,omitempty"`
}

// SaveSnapshot replaces the persisted state with snap. The index blob,
// every entity record, and the id counter are written together.
func (s *BoltStore) SaveSnapshot(snap Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketEntities); err != nil {
			return fmt.Errorf("failed to reset entities bucket: %w", err)
		}
		entities, err := tx.CreateBucket(bucketEntities)
		if err != nil {
			return fmt.Errorf("failed to recreate entities bucket: %w", err)
		}

		for _, entity := range snap.Entities {
			record := entityRecord{
				Version:       schemaVersion,
				VectorID:      entity.VectorID,
				EntityType:    entity.Type,
				EmbeddingText: entity.EmbeddingText,
				Enabled:       entity.Enabled,
				Server:        entity.Server,
				Agent:         entity.Agent,
			}
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("failed to encode entity %s: %w", entity.Path, err)
			}
			if err := entities.Put([]byte(entity.Path), data); err != nil {
				return err
			}
		}

		if err := tx.Bucket(bucketIndex).Put(keyBlob, snap.IndexBlob); err != nil {
			return fmt.Errorf("failed to write index blob: %w", err)
		}

		var next [8]byte
		binary.BigEndian.PutUint64(next[:], uint64(snap.NextID))
		return tx.Bucket(bucketState).Put(keyNextID, next[:])
	})
}

// LoadSnapshot reads the persisted state. A fresh database yields an
// empty snapshot, not an error.
func (s *BoltStore) LoadSnapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		if blob := tx.Bucket(bucketIndex).Get(keyBlob); blob != nil {
			snap.IndexBlob = make([]byte, len(blob))
			copy(snap.IndexBlob, blob)
		}

		if next := tx.Bucket(bucketState).Get(keyNextID); len(next) == 8 {
			snap.NextID = int64(binary.BigEndian.Uint64(next))
		}

		return tx.Bucket(bucketEntities).ForEach(func(k, v []byte) error {
			entity, err := decodeEntity(string(k), v)
			if err != nil {
				return err
			}
			snap.Entities = append(snap.Entities, entity)
			return nil
		})
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func decodeEntity(path string, data []byte) (domain.IndexedEntity, error) {
	var record entityRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.IndexedEntity{}, fmt.Errorf("failed to decode entity %s: %w", path, err)
	}
	if record.Version != schemaVersion {
		return domain.IndexedEntity{}, fmt.Errorf("entity %s has unsupported schema version %d", path, record.Version)
	}
	return domain.IndexedEntity{
		Path:          path,
		VectorID:      record.VectorID,
		Type:          record.EntityType,
		EmbeddingText: record.EmbeddingText,
		Enabled:       record.Enabled,
		Server:        record.Server,
		Agent:         record.Agent,
	}, nil
}
