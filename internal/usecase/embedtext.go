package usecase

import (
	"fmt"
	"strings"

	"regindex/internal/domain"
)

// ServerEmbeddingText renders the deterministic text a server is embedded
// from. Identical descriptor content always yields identical text, which
// is what lets the manager skip re-embedding on no-op upserts.
func ServerEmbeddingText(desc domain.ServerDescriptor) string {
	snippets := make([]string, 0, len(desc.Tools))
	for _, tool := range desc.Tools {
		snippet := fmt.Sprintf("Tool: %s. Description: %s. Args: %s", tool.Name, tool.Description, tool.ArgsSummary)
		snippets = append(snippets, strings.TrimSpace(snippet))
	}

	text := fmt.Sprintf(
		"Name: %s\nDescription: %s\nTags: %s\nTools:\n%s",
		desc.Name,
		desc.Description,
		strings.Join(desc.Tags, ", "),
		strings.Join(snippets, "\n"),
	)
	return strings.TrimSpace(text)
}

// AgentEmbeddingText renders the deterministic text an agent is embedded
// from. Skills and tags appear only when present.
func AgentEmbeddingText(desc domain.AgentDescriptor) string {
	parts := []string{
		fmt.Sprintf("Name: %s", desc.Name),
		fmt.Sprintf("Description: %s", desc.Description),
	}

	if len(desc.Skills) > 0 {
		names := make([]string, 0, len(desc.Skills))
		details := make([]string, 0, len(desc.Skills))
		for _, skill := range desc.Skills {
			names = append(names, skill.Name)
			details = append(details, fmt.Sprintf("%s: %s", skill.Name, skill.Description))
		}
		parts = append(parts, fmt.Sprintf("Skills: %s\nSkill Details: %s",
			strings.Join(names, ", "), strings.Join(details, " | ")))
	}

	if len(desc.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(desc.Tags, ", ")))
	}

	return strings.Join(parts, "\n")
}
