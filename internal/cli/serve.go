package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/utahdevs/utah-dev-events/internal/config"
	"github.com/utahdevs/utah-dev-events/internal/ingest"
	"github.com/utahdevs/utah-dev-events/internal/logger"
	"github.com/utahdevs/utah-dev-events/internal/server"
)

var flagListenAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the feed server with scheduled batch ingestion",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagListenAddr, "listen", "", "HTTP listen address (overrides UDE_LISTEN_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, st, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if flagListenAddr != "" {
		cfg.ListenAddr = flagListenAddr
	}

	sources, err := loadSourcesIfPresent(cfg)
	if err != nil {
		return err
	}

	pipeline := newPipeline(cfg, st)
	srv := server.New(st, pipeline, server.Options{
		Sources:      sources,
		LookbackDays: cfg.LookbackDays,
		MaxEvents:    cfg.MaxEventsPerSource,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", logger.Fields{"signal": sig.String()})
		cancel()
	}()

	scheduler, err := startScheduler(ctx, cfg, pipeline, sources)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	logger.Info("server stopped", nil)
	return nil
}

// startScheduler sets up periodic batch ingestion. Returns nil when no
// schedule or no sources are configured.
func startScheduler(ctx context.Context, cfg *config.Config, pipeline *ingest.Pipeline, sources []ingest.Source) (*cron.Cron, error) {
	if cfg.IngestSchedule == "" || len(sources) == 0 {
		logger.Info("batch ingestion scheduler disabled", logger.Fields{
			"schedule": cfg.IngestSchedule,
			"sources":  len(sources),
		})
		return nil, nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(cfg.IngestSchedule, func() {
		logger.Info("scheduled batch ingestion starting", logger.Fields{"sources": len(sources)})
		summaries := pipeline.IngestAll(ctx, sources)
		for _, s := range summaries {
			if s.Error != "" {
				logger.Warn("scheduled ingestion source failed", logger.Fields{
					"source": s.Source,
					"error":  s.Error,
				})
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid ingest schedule %q: %w", cfg.IngestSchedule, err)
	}
	scheduler.Start()
	logger.Info("batch ingestion scheduled", logger.Fields{"schedule": cfg.IngestSchedule})
	return scheduler, nil
}

// loadSourcesIfPresent reads the sources file, tolerating its absence: a
// server can run feeds-only with single-group ingestion triggered over HTTP.
func loadSourcesIfPresent(cfg *config.Config) ([]ingest.Source, error) {
	if cfg.SourcesFile == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.SourcesFile); os.IsNotExist(err) {
		logger.Warn("sources file not found, batch ingestion disabled", logger.Fields{
			"path": cfg.SourcesFile,
		})
		return nil, nil
	}
	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}
	return sources, nil
}
