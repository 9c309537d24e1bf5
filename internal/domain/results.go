package domain

// ToolMatch is a lexical tool match produced by the tool matcher.
// RawScore is the token coverage in [0,1] before blending with the
// parent server's vector relevance.
type ToolMatch struct {
	ToolName     string         `json:"tool_name"`
	Description  string         `json:"description"`
	MatchContext string         `json:"match_context"`
	Schema       map[string]any `json:"schema,omitempty"`
	RawScore     float64        `json:"raw_score"`
}

// MatchedTool is a tool match embedded in a server result, with the
// composite score already applied.
type MatchedTool struct {
	ToolName     string  `json:"tool_name"`
	Description  string  `json:"description"`
	Relevance    float64 `json:"relevance_score"`
	MatchContext string  `json:"match_context"`
}

// ServerResult is one server hit in a mixed search.
type ServerResult struct {
	EntityType    EntityType    `json:"entity_type"`
	Path          string        `json:"path"`
	Name          string        `json:"server_name"`
	Description   string        `json:"description"`
	Tags          []string      `json:"tags"`
	NumTools      int           `json:"num_tools"`
	Enabled       bool          `json:"is_enabled"`
	Relevance     float64       `json:"relevance_score"`
	MatchContext  string        `json:"match_context"`
	MatchingTools []MatchedTool `json:"matching_tools"`
}

// ToolResult is one tool hit, emitted per matched tool of a server hit
// when tools are part of the requested entity types.
type ToolResult struct {
	EntityType   EntityType `json:"entity_type"`
	ServerPath   string     `json:"server_path"`
	ServerName   string     `json:"server_name"`
	ToolName     string     `json:"tool_name"`
	Description  string     `json:"description"`
	MatchContext string     `json:"match_context"`
	Relevance    float64    `json:"relevance_score"`
}

// AgentResult is one agent hit in a mixed search. Card carries the full
// descriptor for callers that need more than the projected fields.
type AgentResult struct {
	EntityType   EntityType       `json:"entity_type"`
	Path         string           `json:"path"`
	Name         string           `json:"agent_name"`
	Description  string           `json:"description"`
	Tags         []string         `json:"tags"`
	Skills       []string         `json:"skills"`
	Visibility   string           `json:"visibility"`
	TrustLevel   string           `json:"trust_level,omitempty"`
	Enabled      bool             `json:"is_enabled"`
	Relevance    float64          `json:"relevance_score"`
	MatchContext string           `json:"match_context"`
	Card         *AgentDescriptor `json:"agent_card"`
}

// SearchResults groups mixed search hits by entity type. Each list is
// sorted by descending relevance and truncated to the request limit.
type SearchResults struct {
	Servers []ServerResult `json:"servers"`
	Tools   []ToolResult   `json:"tools"`
	Agents  []AgentResult  `json:"agents"`
}

// EmptySearchResults returns a result set with empty, non-nil lists.
func EmptySearchResults() SearchResults {
	return SearchResults{
		Servers: []ServerResult{},
		Tools:   []ToolResult{},
		Agents:  []AgentResult{},
	}
}
