// Package cli defines the utah-dev-events command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/utahdevs/utah-dev-events/internal/config"
	"github.com/utahdevs/utah-dev-events/internal/ingest"
	"github.com/utahdevs/utah-dev-events/internal/logger"
	"github.com/utahdevs/utah-dev-events/internal/scrape"
	"github.com/utahdevs/utah-dev-events/internal/store"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utah-dev-events",
		Short: "Aggregate Utah developer community events into iCal and RSS feeds",
		Long: `utah-dev-events ingests scraped community events from meetup.com, lu.ma
and local sites, stores them with their owning groups, and serves filtered
iCal and RSS feeds.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newReconcileGroupsCmd())

	return cmd
}

// setup loads config, applies the log level, and opens the store. The caller
// owns closing the returned cleanup func.
func setup() (*config.Config, store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))

	if cfg.DatabaseURL == "" {
		logger.Info("no database configured, using in-memory store", nil)
		return cfg, store.NewMemory(), func() {}, nil
	}

	pg, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, nil, fmt.Errorf("preparing database: %w", err)
	}
	cleanup := func() {
		if err := pg.Close(); err != nil {
			logger.Error("closing store", nil, err)
		}
	}
	return cfg, pg, cleanup, nil
}

// newPipeline wires the ingestion pipeline against the real scrape service.
func newPipeline(cfg *config.Config, st store.Store) *ingest.Pipeline {
	client := scrape.NewClient(cfg.ScrapeServiceURL)
	return ingest.New(st, client.Scrape)
}
