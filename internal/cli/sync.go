package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"regindex/internal/adapter/fs"
)

var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Bulk-load descriptor files from a registry directory",
	Long: `Walk a directory tree for descriptor files matching the configured
include globs and upsert every entity found. Unchanged entities are
skipped without re-embedding.

Example:
  regindex sync ./registry`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	walker := fs.NewWalker(cfg.Sync.Includes, cfg.Sync.Excludes)
	files, err := walker.Walk(args[0])
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Println("No descriptor files found.")
		return nil
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	indexed := 0
	var failures []string
	for _, file := range files {
		bar.Add(1)

		desc, err := fs.LoadDescriptor(file)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", file, err))
			continue
		}

		switch desc.Kind {
		case fs.KindServer:
			err = svc.UpsertServer(desc.Path, *desc.Server, desc.Enabled)
		case fs.KindAgent:
			err = svc.UpsertAgent(desc.Path, *desc.Agent, desc.Enabled)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		indexed++
	}

	fmt.Printf("Indexed %d of %d descriptors\n", indexed, len(files))
	for _, failure := range failures {
		fmt.Printf("  failed: %s\n", failure)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d descriptors failed", len(failures))
	}
	return nil
}
