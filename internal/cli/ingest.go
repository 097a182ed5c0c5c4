package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagIngestGroupID string

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one batch ingestion over the configured sources",
		Long: `Scrapes every source in the sources file and upserts the results. With
--group, scrapes only that stored group via its provider link.`,
		RunE: runIngest,
	}
	cmd.Flags().StringVar(&flagIngestGroupID, "group", "", "Ingest a single group by id")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, st, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	pipeline := newPipeline(cfg, st)
	ctx := cmd.Context()

	if flagIngestGroupID != "" {
		summary, err := pipeline.IngestGroup(ctx, flagIngestGroupID, cfg.MaxEventsPerSource)
		if err != nil {
			return fmt.Errorf("ingesting group %s: %w", flagIngestGroupID, err)
		}
		return printJSON(summary)
	}

	sources, err := loadSourcesIfPresent(cfg)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured (set UDE_SOURCES_FILE or use --group)")
	}

	summaries := pipeline.IngestAll(ctx, sources)
	failed := 0
	for _, s := range summaries {
		if s.Error != "" {
			failed++
		}
	}
	if err := printJSON(summaries); err != nil {
		return err
	}
	if failed == len(summaries) {
		return fmt.Errorf("all %d sources failed", failed)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
