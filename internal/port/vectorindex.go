package port

// Hit is one nearest-neighbor match. Distance is squared Euclidean;
// smaller means more similar.
type Hit struct {
	ID       int64
	Distance float32
}

// VectorIndex is an id-addressable nearest-neighbor store. The dimension
// is fixed at construction; changing it requires rebuilding the index.
type VectorIndex interface {
	// Add stores a vector under the given id, replacing any existing
	// vector with the same id.
	Add(id int64, vector []float32) error

	// Remove deletes the vector with the given id and returns the number
	// of vectors removed. An absent id is not an error; it removes zero.
	Remove(id int64) int

	// Search returns up to k hits ordered by ascending distance.
	Search(query []float32, k int) ([]Hit, error)

	// Total returns the number of stored vectors.
	Total() int

	// Dimension returns the configured vector dimension.
	Dimension() int

	// IDs returns the ids of all stored vectors in insertion order.
	IDs() []int64

	// Serialize returns an opaque blob from which the index can be
	// reconstructed.
	Serialize() ([]byte, error)
}
