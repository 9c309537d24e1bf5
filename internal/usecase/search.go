package usecase

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"regindex/internal/adapter/memstore"
	"regindex/internal/domain"
	"regindex/internal/port"
)

const (
	// maxSearchLimit caps the per-type result count of one query.
	maxSearchLimit = 50

	// maxMatchedTools caps the tool matches carried per server hit.
	maxMatchedTools = 5
)

// QueryEngine answers natural-language queries over the indexed entities:
// it embeds the query, runs nearest-neighbor search, resolves hits back
// to their metadata, and shapes typed, relevance-ranked result sets.
type QueryEngine struct {
	index    port.VectorIndex
	meta     *memstore.MetadataStore
	embedder port.Embedder
	log      *slog.Logger
}

func NewQueryEngine(
	index port.VectorIndex,
	meta *memstore.MetadataStore,
	embedder port.Embedder,
	logger *slog.Logger,
) *QueryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryEngine{
		index:    index,
		meta:     meta,
		embedder: embedder,
		log:      logger,
	}
}

// SearchMixed runs a semantic search across servers, their tools, and
// agents. entityTypes filters the result sets; unknown values are
// ignored and an empty or fully-unknown filter means all types. limit
// clamps to [1, 50] and applies per type.
func (q *QueryEngine) SearchMixed(query string, entityTypes []domain.EntityType, limit int) (domain.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResults{}, domain.ErrEmptyQuery
	}
	if q.embedder == nil || q.index == nil {
		return domain.SearchResults{}, domain.ErrUnavailable
	}

	if limit < 1 {
		limit = 1
	} else if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	filter := entityFilter(entityTypes)
	results := domain.EmptySearchResults()

	total := q.index.Total()
	if total == 0 {
		return results, nil
	}

	k := limit
	if total < k {
		k = total
	}

	vectors, err := q.embedder.Embed([]string{query})
	if err != nil {
		return domain.SearchResults{}, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) == 0 {
		return domain.SearchResults{}, fmt.Errorf("embedding query: empty result")
	}

	hits, err := q.index.Search(vectors[0], k)
	if err != nil {
		return domain.SearchResults{}, fmt.Errorf("vector search: %w", err)
	}

	pathsByID := q.meta.PathsByID()

	for _, hit := range hits {
		path, ok := pathsByID[hit.ID]
		if !ok {
			// Orphaned vector left behind by a removal; skip.
			continue
		}
		entity, ok := q.meta.Get(path)
		if !ok {
			continue
		}

		relevance := relevanceFromDistance(hit.Distance)

		switch entity.Type {
		case domain.EntityServer:
			q.collectServerHit(query, entity, relevance, filter, &results)
		case domain.EntityAgent:
			// A record with no card can be decoded from an old snapshot;
			// skip it like the server path does.
			if filter[domain.EntityAgent] && entity.Agent != nil {
				results.Agents = append(results.Agents, buildAgentResult(entity, relevance))
			}
		}
	}

	sortByRelevance(&results, limit)
	return results, nil
}

// SearchAgents is SearchMixed restricted to agents.
func (q *QueryEngine) SearchAgents(query string, limit int) ([]domain.AgentResult, error) {
	results, err := q.SearchMixed(query, []domain.EntityType{domain.EntityAgent}, limit)
	if err != nil {
		return nil, err
	}
	return results.Agents, nil
}

func (q *QueryEngine) collectServerHit(
	query string,
	entity domain.IndexedEntity,
	relevance float64,
	filter map[domain.EntityType]bool,
	results *domain.SearchResults,
) {
	desc := entity.Server
	if desc == nil {
		return
	}

	var toolMatches []domain.ToolMatch
	if filter[domain.EntityTool] {
		toolMatches = MatchTools(query, desc.Tools)
		if len(toolMatches) > maxMatchedTools {
			toolMatches = toolMatches[:maxMatchedTools]
		}
	}

	name := desc.Name
	if name == "" {
		name = strings.Trim(entity.Path, "/")
	}

	if filter[domain.EntityServer] {
		matchContext := desc.Description
		if matchContext == "" {
			matchContext = strings.Join(desc.Tags, ", ")
		}
		if matchContext == "" {
			matchContext = entity.Path
		}

		matched := make([]domain.MatchedTool, 0, len(toolMatches))
		for _, tool := range toolMatches {
			matched = append(matched, domain.MatchedTool{
				ToolName:     tool.ToolName,
				Description:  tool.Description,
				Relevance:    compositeToolScore(relevance, tool.RawScore),
				MatchContext: tool.MatchContext,
			})
		}

		results.Servers = append(results.Servers, domain.ServerResult{
			EntityType:    domain.EntityServer,
			Path:          entity.Path,
			Name:          name,
			Description:   desc.Description,
			Tags:          desc.Tags,
			NumTools:      len(desc.Tools),
			Enabled:       entity.Enabled,
			Relevance:     relevance,
			MatchContext:  matchContext,
			MatchingTools: matched,
		})
	}

	if filter[domain.EntityTool] {
		for _, tool := range toolMatches {
			results.Tools = append(results.Tools, domain.ToolResult{
				EntityType:   domain.EntityTool,
				ServerPath:   entity.Path,
				ServerName:   name,
				ToolName:     tool.ToolName,
				Description:  tool.Description,
				MatchContext: tool.MatchContext,
				Relevance:    compositeToolScore(relevance, tool.RawScore),
			})
		}
	}
}

func buildAgentResult(entity domain.IndexedEntity, relevance float64) domain.AgentResult {
	desc := entity.Agent

	name := desc.Name
	if name == "" {
		name = strings.Trim(entity.Path, "/")
	}

	skills := make([]string, 0, len(desc.Skills))
	for _, skill := range desc.Skills {
		skills = append(skills, skill.Name)
	}

	matchContext := desc.Description
	if matchContext == "" {
		matchContext = strings.Join(skills, ", ")
	}
	if matchContext == "" {
		matchContext = strings.Join(desc.Tags, ", ")
	}

	visibility := desc.Visibility
	if visibility == "" {
		visibility = "public"
	}

	return domain.AgentResult{
		EntityType:   domain.EntityAgent,
		Path:         entity.Path,
		Name:         name,
		Description:  desc.Description,
		Tags:         desc.Tags,
		Skills:       skills,
		Visibility:   visibility,
		TrustLevel:   desc.TrustLevel,
		Enabled:      entity.Enabled,
		Relevance:    relevance,
		MatchContext: matchContext,
		Card:         desc,
	}
}

// entityFilter intersects the requested types with the known ones,
// defaulting to all three when the intersection is empty.
func entityFilter(requested []domain.EntityType) map[domain.EntityType]bool {
	filter := make(map[domain.EntityType]bool, 3)
	for _, t := range requested {
		switch t {
		case domain.EntityServer, domain.EntityAgent, domain.EntityTool:
			filter[t] = true
		}
	}
	if len(filter) == 0 {
		filter[domain.EntityServer] = true
		filter[domain.EntityAgent] = true
		filter[domain.EntityTool] = true
	}
	return filter
}

// relevanceFromDistance maps a non-negative distance to a score in
// [0, 1]: 1 at distance zero, strictly decreasing as distance grows.
func relevanceFromDistance(distance float32) float64 {
	relevance := 1.0 / (1.0 + float64(distance))
	if relevance < 0 {
		return 0
	}
	if relevance > 1 {
		return 1
	}
	return relevance
}

// compositeToolScore blends the server's vector relevance with the
// tool's lexical coverage, capped at 1.
func compositeToolScore(relevance, rawScore float64) float64 {
	score := (relevance + rawScore) / 2
	if score > 1 {
		return 1
	}
	return score
}

// sortByRelevance orders each result list by descending relevance and
// truncates to limit. Stable sort keeps nearest-neighbor order on ties.
func sortByRelevance(results *domain.SearchResults, limit int) {
	sort.SliceStable(results.Servers, func(i, j int) bool {
		return results.Servers[i].Relevance > results.Servers[j].Relevance
	})
	sort.SliceStable(results.Tools, func(i, j int) bool {
		return results.Tools[i].Relevance > results.Tools[j].Relevance
	})
	sort.SliceStable(results.Agents, func(i, j int) bool {
		return results.Agents[i].Relevance > results.Agents[j].Relevance
	})

	if len(results.Servers) > limit {
		results.Servers = results.Servers[:limit]
	}
	if len(results.Tools) > limit {
		results.Tools = results.Tools[:limit]
	}
	if len(results.Agents) > limit {
		results.Agents = results.Agents[:limit]
	}
}
