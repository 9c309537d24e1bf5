package vector

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"regindex/internal/domain"
	"regindex/internal/port"
)

// blob layout: magic, uint32 dimension, uint32 count, then per vector a
// uint64 id followed by dimension little-endian float32 values.
var blobMagic = []byte("REGIDXF1")

// FlatIndex is an exact nearest-neighbor index over id-keyed vectors.
// Search is brute force over all vectors using squared Euclidean distance.
// Ties keep insertion order. Fine at registry scale; can be replaced with
// HNSW behind the same interface if registries grow past a few thousand
// entries.
//
// Not safe for concurrent use; callers serialize access.
type FlatIndex struct {
	dimension int
	ids       []int64
	vectors   map[int64][]float32
}

var _ port.VectorIndex = (*FlatIndex)(nil)

// NewFlatIndex creates an empty index with the given fixed dimension.
func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{
		dimension: dimension,
		vectors:   make(map[int64][]float32),
	}
}

func (x *FlatIndex) Add(id int64, vec []float32) error {
	if len(vec) != x.dimension {
		return fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, x.dimension, len(vec))
	}

	stored := make([]float32, len(vec))
	copy(stored, vec)

	if _, exists := x.vectors[id]; !exists {
		x.ids = append(x.ids, id)
	}
	x.vectors[id] = stored
	return nil
}

func (x *FlatIndex) Remove(id int64) int {
	if _, exists := x.vectors[id]; !exists {
		return 0
	}
	delete(x.vectors, id)
	for i, existing := range x.ids {
		if existing == id {
			x.ids = append(x.ids[:i], x.ids[i+1:]...)
			break
		}
	}
	return 1
}

func (x *FlatIndex) Search(query []float32, k int) ([]port.Hit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, x.dimension, len(query))
	}
	if k <= 0 || len(x.ids) == 0 {
		return nil, nil
	}

	hits := make([]port.Hit, 0, len(x.ids))
	for _, id := range x.ids {
		hits = append(hits, port.Hit{ID: id, Distance: squaredL2(query, x.vectors[id])})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *FlatIndex) Total() int {
	return len(x.ids)
}

func (x *FlatIndex) Dimension() int {
	return x.dimension
}

func (x *FlatIndex) IDs() []int64 {
	ids := make([]int64, len(x.ids))
	copy(ids, x.ids)
	return ids
}

// Serialize encodes the index into an opaque blob for persistence.
func (x *FlatIndex) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(blobMagic)

	if err := binary.Write(&buf, binary.LittleEndian, uint32(x.dimension)); err != nil {
		return nil, fmt.Errorf("encoding dimension: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(x.ids))); err != nil {
		return nil, fmt.Errorf("encoding count: %w", err)
	}

	for _, id := range x.ids {
		if err := binary.Write(&buf, binary.LittleEndian, uint64(id)); err != nil {
			return nil, fmt.Errorf("encoding id %d: %w", id, err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, x.vectors[id]); err != nil {
			return nil, fmt.Errorf("encoding vector %d: %w", id, err)
		}
	}

	return buf.Bytes(), nil
}

// Deserialize reconstructs a FlatIndex from a blob produced by Serialize.
func Deserialize(data []byte) (*FlatIndex, error) {
	buf := bytes.NewReader(data)

	magic := make([]byte, len(blobMagic))
	if _, err := buf.Read(magic); err != nil || !bytes.Equal(magic, blobMagic) {
		return nil, fmt.Errorf("unrecognized index blob")
	}

	var dimension, count uint32
	if err := binary.Read(buf, binary.LittleEndian, &dimension); err != nil {
		return nil, fmt.Errorf("decoding dimension: %w", err)
	}
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("decoding count: %w", err)
	}

	idx := NewFlatIndex(int(dimension))
	for i := uint32(0); i < count; i++ {
		var id uint64
		if err := binary.Read(buf, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("decoding id at %d: %w", i, err)
		}
		vec := make([]float32, dimension)
		if err := binary.Read(buf, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("decoding vector at %d: %w", i, err)
		}
		idx.ids = append(idx.ids, int64(id))
		idx.vectors[int64(id)] = vec
	}

	return idx, nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
