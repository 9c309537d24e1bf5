package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index state",
	RunE:  runStatus,
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaim vectors orphaned by removals",
	Long: `Removing an entity drops its metadata but leaves its vector in the
index. Compact rebuilds the index keeping only vectors that still belong
to a registered entity.`,
	RunE: runCompact,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(compactCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	stats := svc.Stats()
	fmt.Printf("Entities:  %d\n", stats.Entities)
	fmt.Printf("Vectors:   %d (%d orphaned)\n", stats.Vectors, stats.Orphans)
	fmt.Printf("Dimension: %d\n", stats.Dimension)
	fmt.Printf("Next id:   %d\n", stats.NextID)
	fmt.Printf("Model:     %s\n", stats.Model)
	return nil
}

func runCompact(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	removed, err := svc.Compact()
	if err != nil {
		return fmt.Errorf("compact failed: %w", err)
	}

	fmt.Printf("Removed %d orphaned vectors\n", removed)
	return nil
}
