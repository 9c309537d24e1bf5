package domain

import "reflect"

// EntityType discriminates the kinds of registered entities. Tool is a
// derived type: tools are never indexed on their own, they surface in
// search results through their parent server.
type EntityType string

const (
	EntityServer EntityType = "mcp_server"
	EntityAgent  EntityType = "a2a_agent"
	EntityTool   EntityType = "tool"
)

// ToolDescriptor describes a single callable tool exposed by a server.
type ToolDescriptor struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	ArgsSummary string         `json:"args_summary,omitempty" yaml:"args_summary"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema"`
}

// ServerDescriptor is the payload of a registered tool-bearing server.
type ServerDescriptor struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags"`
	Tools       []ToolDescriptor `json:"tools,omitempty" yaml:"tools"`
}

// Skill is a named capability advertised by an agent.
type Skill struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AgentDescriptor is the payload of a registered autonomous agent.
type AgentDescriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Skills      []Skill  `json:"skills,omitempty" yaml:"skills"`
	Visibility  string   `json:"visibility,omitempty" yaml:"visibility"`
	TrustLevel  string   `json:"trust_level,omitempty" yaml:"trust_level"`
}

// IndexedEntity is one registered path with its vector identity and payload.
// Exactly one of Server or Agent is set, matching Type.
type IndexedEntity struct {
	Path          string
	VectorID      int64
	Type          EntityType
	EmbeddingText string
	Enabled       bool
	Server        *ServerDescriptor
	Agent         *AgentDescriptor
}

// SameContent reports whether the payload and enabled flag are unchanged.
// EmbeddingText and VectorID are deliberately excluded: the caller decides
// re-embedding separately.
func (e IndexedEntity) SameContent(other IndexedEntity) bool {
	return e.Enabled == other.Enabled &&
		e.Type == other.Type &&
		reflect.DeepEqual(e.Server, other.Server) &&
		reflect.DeepEqual(e.Agent, other.Agent)
}
