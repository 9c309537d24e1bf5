package fs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"regindex/internal/domain"
)

// Descriptor is the on-disk registration format consumed by the CLI.
// YAML and JSON files both parse (JSON is valid YAML).
type Descriptor struct {
	Kind    string                   `yaml:"kind" json:"kind"`
	Path    string                   `yaml:"path" json:"path"`
	Enabled bool                     `yaml:"enabled" json:"enabled"`
	Server  *domain.ServerDescriptor `yaml:"server,omitempty" json:"server,omitempty"`
	Agent   *domain.AgentDescriptor  `yaml:"agent,omitempty" json:"agent,omitempty"`
}

const (
	KindServer = "server"
	KindAgent  = "agent"
)

// LoadDescriptor reads and validates a descriptor file.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}

	if desc.Path == "" {
		return Descriptor{}, fmt.Errorf("descriptor %s: path is required", path)
	}

	switch desc.Kind {
	case KindServer:
		if desc.Server == nil {
			return Descriptor{}, fmt.Errorf("descriptor %s: kind is server but server payload is missing", path)
		}
	case KindAgent:
		if desc.Agent == nil {
			return Descriptor{}, fmt.Errorf("descriptor %s: kind is agent but agent payload is missing", path)
		}
	default:
		return Descriptor{}, fmt.Errorf("descriptor %s: unknown kind %q (want server or agent)", path, desc.Kind)
	}

	return desc, nil
}
