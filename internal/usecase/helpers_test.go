package usecase

import (
	"io"
	"log/slog"

	"regindex/internal/adapter/memstore"
	"regindex/internal/adapter/vector"
	"regindex/internal/domain"
)

const testDimension = 4

// scriptedEmbedder returns preset vectors per exact text and counts
// Embed calls so tests can assert when re-embedding happens.
type scriptedEmbedder struct {
	dimension int
	vectors   map[string][]float32
	calls     int
	failWith  error
}

func newScriptedEmbedder() *scriptedEmbedder {
	return &scriptedEmbedder{
		dimension: testDimension,
		vectors:   make(map[string][]float32),
	}
}

func (e *scriptedEmbedder) set(text string, vec []float32) {
	e.vectors[text] = vec
}

func (e *scriptedEmbedder) Embed(texts []string) ([][]float32, error) {
	if e.failWith != nil {
		return nil, e.failWith
	}
	e.calls++

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dimension)
		if scripted, ok := e.vectors[text]; ok {
			copy(vec, scripted)
		} else {
			vec[0] = 1
		}
		out[i] = vec
	}
	return out, nil
}

func (e *scriptedEmbedder) Dimension() int {
	return e.dimension
}

func (e *scriptedEmbedder) ModelName() string {
	return "scripted"
}

type testEngine struct {
	manager  *IndexManager
	engine   *QueryEngine
	embedder *scriptedEmbedder
	meta     *memstore.MetadataStore
	index    *vector.FlatIndex
}

func newTestEngine() *testEngine {
	embedder := newScriptedEmbedder()
	index := vector.NewFlatIndex(testDimension)
	meta := memstore.NewMetadataStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEngine{
		manager:  NewIndexManager(index, meta, embedder, nil, logger),
		engine:   NewQueryEngine(index, meta, embedder, logger),
		embedder: embedder,
		meta:     meta,
		index:    index,
	}
}

func weatherServer() domain.ServerDescriptor {
	return domain.ServerDescriptor{
		Name:        "WeatherAPI",
		Description: "get forecasts",
		Tags:        []string{"weather"},
		Tools: []domain.ToolDescriptor{
			{Name: "get_forecast", Description: "returns forecast"},
		},
	}
}

func schedulerAgent() domain.AgentDescriptor {
	return domain.AgentDescriptor{
		Name:        "Bot1",
		Description: "schedules meetings",
		Skills: []domain.Skill{
			{Name: "calendar", Description: "manage calendar"},
		},
	}
}
