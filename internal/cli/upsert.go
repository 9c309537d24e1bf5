package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"regindex/internal/adapter/fs"
)

var upsertFile string

var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Register or update an entity from a descriptor file",
	Long: `Read a server or agent descriptor (YAML or JSON) and add it to the
semantic index, or update it in place if the path is already registered.

Examples:
  regindex upsert -f weather-server.yaml
  regindex upsert -f agents/scheduler.json`,
	RunE: runUpsert,
}

func init() {
	rootCmd.AddCommand(upsertCmd)
	upsertCmd.Flags().StringVarP(&upsertFile, "file", "f", "", "descriptor file (required)")
	upsertCmd.MarkFlagRequired("file")
}

func runUpsert(cmd *cobra.Command, args []string) error {
	desc, err := fs.LoadDescriptor(upsertFile)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	switch desc.Kind {
	case fs.KindServer:
		err = svc.UpsertServer(desc.Path, *desc.Server, desc.Enabled)
	case fs.KindAgent:
		err = svc.UpsertAgent(desc.Path, *desc.Agent, desc.Enabled)
	}
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}

	fmt.Printf("Indexed %s %s\n", desc.Kind, desc.Path)
	return nil
}
