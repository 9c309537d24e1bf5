package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"regindex/internal/domain"
)

var (
	searchQuery string
	searchTypes []string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed servers, tools, and agents",
	Long: `Run a natural-language query over the semantic index and print
relevance-ranked results grouped by entity type.

Examples:
  regindex search -q "weather forecasts"
  regindex search -q "schedule a meeting" --types agent --limit 5 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil, "entity types to include: server, tool, agent (default all)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "k", 0, "max results per type (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

// parseEntityTypes accepts the short CLI names alongside the wire names.
func parseEntityTypes(names []string) []domain.EntityType {
	var types []domain.EntityType
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "server", "servers", string(domain.EntityServer):
			types = append(types, domain.EntityServer)
		case "agent", "agents", string(domain.EntityAgent):
			types = append(types, domain.EntityAgent)
		case "tool", "tools":
			types = append(types, domain.EntityTool)
		}
	}
	return types
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	limit := cfg.Search.DefaultLimit
	if searchLimit > 0 {
		limit = searchLimit
	}

	results, err := svc.SearchMixed(searchQuery, parseEntityTypes(searchTypes), limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	total := len(results.Servers) + len(results.Tools) + len(results.Agents)
	if total == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", total, searchQuery)
	for _, r := range results.Servers {
		fmt.Printf("[server %.2f] %s (%s) - %s\n", r.Relevance, r.Path, r.Name, r.MatchContext)
		for _, tool := range r.MatchingTools {
			fmt.Printf("    tool %.2f %s - %s\n", tool.Relevance, tool.ToolName, tool.MatchContext)
		}
	}
	for _, r := range results.Tools {
		fmt.Printf("[tool   %.2f] %s on %s - %s\n", r.Relevance, r.ToolName, r.ServerPath, r.MatchContext)
	}
	for _, r := range results.Agents {
		fmt.Printf("[agent  %.2f] %s (%s) - %s\n", r.Relevance, r.Path, r.Name, r.MatchContext)
	}
	return nil
}
