package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a registered entity",
	Long: `Remove the entity registered under the given path from the index.
Removing an unknown path is a no-op.

Example:
  regindex remove /weather`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Remove(args[0]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}
