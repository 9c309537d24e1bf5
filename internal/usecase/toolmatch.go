package usecase

import (
	"regexp"
	"sort"
	"strings"

	"regindex/internal/domain"
)

var queryTokenPattern = regexp.MustCompile(`\W+`)

// matchContextLimit caps the context excerpt carried on a tool match.
const matchContextLimit = 180

// MatchTools scores a server's tools against the query by token coverage:
// the fraction of query tokens found in the tool's name, description, and
// args text. Tools with no matching token are dropped. Results are
// ordered by descending coverage, ties keeping tool order.
func MatchTools(query string, tools []domain.ToolDescriptor) []domain.ToolMatch {
	if len(tools) == 0 {
		return nil
	}

	tokens := tokenizeQuery(query)
	if len(tokens) == 0 {
		return nil
	}

	var matches []domain.ToolMatch
	for _, tool := range tools {
		searchable := strings.ToLower(strings.TrimSpace(
			tool.Name + " " + tool.Description + " " + tool.ArgsSummary))
		if searchable == "" {
			continue
		}

		matched := make(map[string]bool)
		for _, token := range tokens {
			if strings.Contains(searchable, token) {
				matched[token] = true
			}
		}
		if len(matched) == 0 {
			continue
		}

		coverage := float64(len(matched)) / float64(len(tokens))

		context := tool.Description
		if context == "" {
			context = tool.ArgsSummary
		}
		// Truncate on runes, not bytes, so multibyte text stays valid.
		if runes := []rune(context); len(runes) > matchContextLimit {
			context = string(runes[:matchContextLimit])
		}

		matches = append(matches, domain.ToolMatch{
			ToolName:     tool.Name,
			Description:  tool.Description,
			MatchContext: context,
			Schema:       tool.Schema,
			RawScore:     coverage,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].RawScore > matches[j].RawScore
	})
	return matches
}

func tokenizeQuery(query string) []string {
	var tokens []string
	for _, token := range queryTokenPattern.Split(strings.ToLower(query), -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
