// Package ingest turns scraped candidate events into stored events. Each
// configured source maps to one group; candidates are upserted by link so a
// re-scrape refreshes an event instead of duplicating it.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/utahdevs/utah-dev-events/internal/dedupe"
	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/logger"
	"github.com/utahdevs/utah-dev-events/internal/scrape"
	"github.com/utahdevs/utah-dev-events/internal/store"
)

// Source is one configured scrape target. Name doubles as the owning group's
// name; Tags are copied onto every event the source produces.
type Source struct {
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Tags      []string `json:"tags"`
	MaxEvents int      `json:"max_events"`
}

// Summary reports what one pipeline run did for one source.
type Summary struct {
	Source  string `json:"source"`
	Scraped int    `json:"eventsScraped"`
	Created int    `json:"eventsCreated"`
	Updated int    `json:"eventsUpdated"`
	Skipped int    `json:"eventsSkipped"`
	Error   string `json:"error,omitempty"`
}

// Pipeline ingests scraped events into the store.
type Pipeline struct {
	store  store.Store
	scrape scrape.Func
}

// New creates a pipeline over the given store and scrape function.
func New(st store.Store, scrapeFn scrape.Func) *Pipeline {
	return &Pipeline{store: st, scrape: scrapeFn}
}

// IngestSource scrapes one source and upserts its events. A transport
// failure returns the error with an empty summary; per-event failures are
// logged, counted as skipped, and do not abort the rest of the batch.
func (p *Pipeline) IngestSource(ctx context.Context, src Source) (Summary, error) {
	summary := Summary{Source: src.Name}

	group, err := p.resolveGroup(ctx, src)
	if err != nil {
		return summary, fmt.Errorf("resolving group for source %q: %w", src.Name, err)
	}

	candidates, err := p.scrape(ctx, src.URL, src.MaxEvents)
	if err != nil {
		logger.Error("scrape failed", logger.Fields{"source": src.Name, "url": src.URL}, err)
		logger.IncrCounter("ingest.scrape_failures")
		return summary, fmt.Errorf("scraping source %q: %w", src.Name, err)
	}
	summary.Scraped = len(candidates)

	for _, cand := range candidates {
		created, err := p.upsertCandidate(ctx, cand, group, src.Tags)
		if err != nil {
			logger.Warn("skipping candidate event", logger.Fields{
				"source": src.Name,
				"url":    cand.URL,
				"reason": err.Error(),
			})
			summary.Skipped++
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	logger.Info("source ingested", logger.Fields{
		"source":  src.Name,
		"scraped": summary.Scraped,
		"created": summary.Created,
		"updated": summary.Updated,
		"skipped": summary.Skipped,
	})
	logger.IncrCounter("ingest.sources_processed")
	return summary, nil
}

// IngestAll runs every source in order. A failing source records its error
// in its summary and the run continues with the next source.
func (p *Pipeline) IngestAll(ctx context.Context, sources []Source) []Summary {
	summaries := make([]Summary, 0, len(sources))
	for _, src := range sources {
		summary, err := p.IngestSource(ctx, src)
		if err != nil {
			summary.Error = err.Error()
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// IngestGroup scrapes an existing group via its provider link. Used by the
// single-group ingestion endpoint.
func (p *Pipeline) IngestGroup(ctx context.Context, groupID string, maxEvents int) (Summary, error) {
	group, err := p.store.GetGroup(ctx, groupID)
	if err != nil {
		return Summary{}, fmt.Errorf("loading group %s: %w", groupID, err)
	}

	url := group.MeetupLink
	if url == "" {
		url = group.LumaLink
	}
	if url == "" {
		return Summary{Source: group.Name}, fmt.Errorf("group %q has no scrapeable link", group.Name)
	}

	return p.IngestSource(ctx, Source{
		Name:      group.Name,
		URL:       url,
		Tags:      group.Tags,
		MaxEvents: maxEvents,
	})
}

// resolveGroup finds the group matching the source's name exactly, creating
// it as approved when absent. The source URL is recorded on the provider
// link field it belongs to.
func (p *Pipeline) resolveGroup(ctx context.Context, src Source) (*event.Group, error) {
	group, err := p.store.GetGroupByName(ctx, src.Name)
	if err == nil {
		return group, nil
	}
	if err != store.ErrNotFound {
		return nil, err
	}

	group = &event.Group{
		Name:      src.Name,
		Status:    event.StatusApproved,
		Tags:      append([]string(nil), src.Tags...),
		CreatedAt: time.Now().UTC(),
	}
	switch scrape.DetectProvider(src.URL) {
	case scrape.ProviderMeetup:
		group.MeetupLink = src.URL
	case scrape.ProviderLuma:
		group.LumaLink = src.URL
	default:
		group.Website = src.URL
	}

	id, err := p.store.CreateGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	group.ID = id
	logger.Info("group created", logger.Fields{"group": group.Name, "id": id})
	return group, nil
}

// upsertCandidate validates and stores one scraped event. It reports whether
// a new event was created (true) or an existing one updated (false).
func (p *Pipeline) upsertCandidate(ctx context.Context, cand scrape.ScrapedEvent, group *event.Group, tags []string) (bool, error) {
	if cand.URL == "" {
		return false, fmt.Errorf("candidate has no url")
	}
	if strings.TrimSpace(cand.Title) == "" {
		return false, fmt.Errorf("candidate has no title")
	}
	if cand.Time == nil {
		return false, fmt.Errorf("candidate has no start time")
	}

	date, clock := event.SplitMountain(*cand.Time)

	evt := &event.Event{
		Title:       strings.TrimSpace(cand.Title),
		Description: scrape.HTMLToText(cand.Description),
		Date:        date,
		StartTime:   clock,
		VenueName:   cand.VenueName,
		Location:    cand.VenueAddress,
		Link:        cand.URL,
		Image:       cand.ImageURL,
		Tags:        append([]string(nil), tags...),
		GroupID:     group.ID,
		Status:      event.StatusApproved,
	}

	existing, err := p.store.GetEventByLink(ctx, cand.URL)
	switch {
	case err == nil:
		// Id, link, and operator-set status survive the refresh.
		evt.ID = existing.ID
		evt.Status = existing.Status
		if err := p.store.UpdateEvent(ctx, evt); err != nil {
			return false, fmt.Errorf("updating event: %w", err)
		}
		return false, nil
	case err == store.ErrNotFound:
		p.warnNearDuplicates(ctx, evt)
		if _, err := p.store.CreateEvent(ctx, evt); err != nil {
			return false, fmt.Errorf("creating event: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("looking up event by link: %w", err)
	}
}

// warnNearDuplicates flags same-day events with very similar titles before a
// new insert. Advisory only: the insert always proceeds, and read-time
// deduplication handles collapsing.
func (p *Pipeline) warnNearDuplicates(ctx context.Context, evt *event.Event) {
	sameDay, err := p.store.ListEventsOn(ctx, evt.Date)
	if err != nil {
		logger.Warn("near-duplicate check failed", logger.Fields{"date": evt.Date, "error": err.Error()})
		return
	}
	for _, other := range sameDay {
		if sim := dedupe.TitleSimilarity(evt.Title, other.Title); sim > dedupe.DefaultThreshold {
			logger.Warn("possible duplicate event", logger.Fields{
				"title":      evt.Title,
				"similar_to": other.Title,
				"date":       evt.Date,
				"similarity": fmt.Sprintf("%.2f", sim),
			})
			logger.IncrCounter("ingest.near_duplicates")
		}
	}
}
