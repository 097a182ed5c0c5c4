package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/feed"
	"github.com/utahdevs/utah-dev-events/internal/filter"
	"github.com/utahdevs/utah-dev-events/internal/logger"
	"github.com/utahdevs/utah-dev-events/internal/region"
)

func (s *Server) handleICalFeed(c echo.Context) error {
	events, groups, err := s.filteredEvents(c)
	if err != nil {
		return err
	}

	body := feed.RenderICal(events, groups, s.now())
	c.Response().Header().Set("Content-Disposition", `attachment; filename="utah-dev-events.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (s *Server) handleRSSFeed(c echo.Context) error {
	events, groups, err := s.filteredEvents(c)
	if err != nil {
		return err
	}

	body := feed.RenderRSS(events, groups, s.now())
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(body))
}

// filteredEvents loads the lookback window, applies the query-derived
// criteria, and returns the sorted survivors with the group lookup.
func (s *Server) filteredEvents(c echo.Context) ([]*event.Event, map[string]*event.Group, error) {
	ctx := c.Request().Context()

	events, err := s.store.ListEventsFrom(ctx, s.lookbackDate())
	if err != nil {
		logger.Error("loading feed events", logger.Fields{"path": c.Path()}, err)
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "loading events")
	}
	groups, err := s.groupLookup(ctx)
	if err != nil {
		logger.Error("loading feed groups", logger.Fields{"path": c.Path()}, err)
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "loading groups")
	}

	out := s.engine.Apply(events, groups, s.parseCriteria(c))
	filter.SortForFeed(out)
	return out, groups, nil
}

// parseCriteria maps feed query parameters onto filter criteria. Unknown
// region names are ignored rather than rejected: a stale bookmark should
// still return a feed.
func (s *Server) parseCriteria(c echo.Context) filter.Criteria {
	criteria := filter.Criteria{
		GroupIDs:      splitParam(c.QueryParam("groups")),
		Tags:          splitParam(c.QueryParam("tags")),
		ExcludeOnline: c.QueryParam("excludeOnline") == "true",
	}

	for _, name := range splitParam(c.QueryParam("regions")) {
		if r, ok := region.Parse(name); ok {
			criteria.Regions = append(criteria.Regions, r)
		} else {
			logger.Warn("ignoring unknown region filter", logger.Fields{"region": name})
		}
	}

	return criteria
}

// splitParam splits a comma-separated query value, dropping empty entries.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
