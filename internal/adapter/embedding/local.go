package embedding

import (
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var localTokenPattern = regexp.MustCompile(`\W+`)

// LocalEmbedder produces deterministic bag-of-words embeddings with no
// network dependency: each token is hashed into a bucket and the vector
// is L2-normalized. Identical text always yields an identical vector, so
// unchanged entities are never re-embedded. Useful for air-gapped
// deployments and tests; retrieval quality is lexical, not semantic.
type LocalEmbedder struct {
	dimension int
}

func NewLocalEmbedder(dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = 256
	}
	return &LocalEmbedder{dimension: dimension}
}

func (e *LocalEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *LocalEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, token := range localTokenPattern.Split(strings.ToLower(text), -1) {
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[int(h.Sum32())%e.dimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return vec
}

func (e *LocalEmbedder) Dimension() int {
	return e.dimension
}

func (e *LocalEmbedder) ModelName() string {
	return "local-hash"
}
