package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	agentsQuery string
	agentsLimit int
	agentsJSON  bool
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Search indexed agents only",
	Long: `Run a natural-language query restricted to agents.

Example:
  regindex agents -q "schedule a meeting"`,
	RunE: runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.Flags().StringVarP(&agentsQuery, "query", "q", "", "search query (required)")
	agentsCmd.Flags().IntVarP(&agentsLimit, "limit", "k", 0, "max results (default from config)")
	agentsCmd.Flags().BoolVar(&agentsJSON, "json", false, "output as JSON")
	agentsCmd.MarkFlagRequired("query")
}

func runAgents(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	limit := cfg.Search.DefaultLimit
	if agentsLimit > 0 {
		limit = agentsLimit
	}

	agents, err := svc.SearchAgents(agentsQuery, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if agentsJSON {
		output, _ := json.MarshalIndent(agents, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(agents) == 0 {
		fmt.Println("No agents found.")
		return nil
	}
	for _, a := range agents {
		fmt.Printf("[%.2f] %s (%s) - %s\n", a.Relevance, a.Path, a.Name, a.MatchContext)
		if len(a.Skills) > 0 {
			fmt.Printf("    skills: %v\n", a.Skills)
		}
	}
	return nil
}
