package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-groups",
		Short: "Merge groups sharing a provider link",
		Long: `Finds groups sharing the same meetup or luma link, keeps the earliest
created one in each set, reparents the others' events onto it, and deletes
the duplicates.`,
		RunE: runReconcileGroups,
	}
}

func runReconcileGroups(cmd *cobra.Command, args []string) error {
	cfg, st, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline := newPipeline(cfg, st)
	removed, err := pipeline.ReconcileDuplicateGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconciling groups: %w", err)
	}

	fmt.Printf("merged %d duplicate group(s)\n", removed)
	return nil
}
