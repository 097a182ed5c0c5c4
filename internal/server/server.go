// Package server exposes the feed and ingestion endpoints over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/filter"
	"github.com/utahdevs/utah-dev-events/internal/ingest"
	"github.com/utahdevs/utah-dev-events/internal/logger"
	"github.com/utahdevs/utah-dev-events/internal/store"
)

// Server wires the store, filter engine, and ingestion pipeline behind echo.
type Server struct {
	echo         *echo.Echo
	store        store.Store
	engine       *filter.Engine
	pipeline     *ingest.Pipeline
	sources      []ingest.Source
	lookbackDays int
	maxEvents    int
	now          func() time.Time
}

// Options configure a Server beyond its collaborators.
type Options struct {
	Sources      []ingest.Source
	LookbackDays int
	MaxEvents    int

	// Now overrides the clock in tests.
	Now func() time.Time
}

// New builds a Server with all routes registered.
func New(st store.Store, pipeline *ingest.Pipeline, opts Options) *Server {
	s := &Server{
		echo:         echo.New(),
		store:        st,
		engine:       filter.Default(),
		pipeline:     pipeline,
		sources:      opts.Sources,
		lookbackDays: opts.LookbackDays,
		maxEvents:    opts.MaxEvents,
		now:          opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(corsMiddleware)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/feeds/ical", s.handleICalFeed)
	s.echo.GET("/feeds/rss", s.handleRSSFeed)
	s.echo.POST("/ingest/group", s.handleIngestGroup)
	s.echo.POST("/ingest/batch", s.handleIngestBatch)
	s.echo.GET("/healthz", s.handleHealth)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	logger.Info("http server starting", logger.Fields{"addr": addr})
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// corsMiddleware answers pre-flight requests directly with 200/ok and stamps
// permissive headers on everything else. Feed consumers are browser calendar
// and reader apps on arbitrary origins.
func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request().Method == http.MethodOptions {
			return c.String(http.StatusOK, "ok")
		}
		return next(c)
	}
}

// lookbackDate returns the earliest event date the feeds will consider.
func (s *Server) lookbackDate() string {
	loc := event.MountainLocation()
	return s.now().In(loc).AddDate(0, 0, -s.lookbackDays).Format(event.DateLayout)
}

// groupLookup loads all groups keyed by id.
func (s *Server) groupLookup(ctx context.Context) (map[string]*event.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*event.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	return byID, nil
}
