// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/utahdevs/utah-dev-events/internal/ingest"
	"github.com/utahdevs/utah-dev-events/internal/scrape"
)

// Config holds everything the server and pipeline need. All values come from
// UDE_-prefixed environment variables; defaults suit local development.
type Config struct {
	// ListenAddr is the HTTP bind address (UDE_LISTEN_ADDR).
	ListenAddr string
	// ScrapeServiceURL is the scraping transport endpoint (UDE_SCRAPE_SERVICE_URL).
	ScrapeServiceURL string
	// DatabaseURL is the Postgres DSN; empty selects the in-memory store
	// (UDE_DATABASE_URL).
	DatabaseURL string
	// LookbackDays bounds the feed window to today minus this many days
	// (UDE_LOOKBACK_DAYS).
	LookbackDays int
	// MaxEventsPerSource caps how many events one scrape may return
	// (UDE_MAX_EVENTS_PER_SOURCE).
	MaxEventsPerSource int
	// IngestSchedule is a cron expression for the periodic batch ingestion;
	// empty disables the scheduler (UDE_INGEST_SCHEDULE).
	IngestSchedule string
	// LogLevel is debug, info, warn, or error (UDE_LOG_LEVEL).
	LogLevel string
	// SourcesFile is the path to the JSON list of scrape sources
	// (UDE_SOURCES_FILE).
	SourcesFile string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("scrape_service_url", "http://localhost:5000/scrape")
	v.SetDefault("database_url", "")
	v.SetDefault("lookback_days", 7)
	v.SetDefault("max_events_per_source", 20)
	v.SetDefault("ingest_schedule", "0 */6 * * *")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "sources.json")

	cfg := &Config{
		ListenAddr:         v.GetString("listen_addr"),
		ScrapeServiceURL:   v.GetString("scrape_service_url"),
		DatabaseURL:        v.GetString("database_url"),
		LookbackDays:       v.GetInt("lookback_days"),
		MaxEventsPerSource: v.GetInt("max_events_per_source"),
		IngestSchedule:     v.GetString("ingest_schedule"),
		LogLevel:           v.GetString("log_level"),
		SourcesFile:        v.GetString("sources_file"),
	}

	if cfg.LookbackDays < 0 {
		return nil, fmt.Errorf("lookback_days must be >= 0, got %d", cfg.LookbackDays)
	}
	if cfg.MaxEventsPerSource <= 0 {
		return nil, fmt.Errorf("max_events_per_source must be > 0, got %d", cfg.MaxEventsPerSource)
	}
	return cfg, nil
}

// LoadSources reads the scrape source list from the JSON file at path.
func LoadSources(path string) ([]ingest.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var sources []ingest.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	for i, src := range sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source %d has no name", i)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("source %q has no url", src.Name)
		}
		if scrape.DetectProvider(src.URL) == scrape.ProviderUnknown {
			return nil, fmt.Errorf("source %q has unrecognized url %s", src.Name, src.URL)
		}
	}
	return sources, nil
}
