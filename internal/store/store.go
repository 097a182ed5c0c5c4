// Package store defines the event/group persistence interfaces and provides
// two implementations: an in-memory store for tests and local runs, and a
// PostgreSQL store for deployments.
//
// Writers (the ingestion pipeline) and readers (feeds, the filter engine)
// share the store without exclusive locks; per-row update semantics are the
// unit of atomicity, and readers tolerate lagging a scrape by one polling
// interval.
package store

import (
	"context"
	"errors"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// ErrNotFound is returned by point lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// EventStore holds events. CreateEvent assigns and returns the id;
// UpdateEvent overwrites by id and never changes id or link.
type EventStore interface {
	CreateEvent(ctx context.Context, evt *event.Event) (string, error)
	UpdateEvent(ctx context.Context, evt *event.Event) error
	GetEvent(ctx context.Context, id string) (*event.Event, error)

	// GetEventByLink is the upsert lookup: link uniquely identifies an
	// event within the store.
	GetEventByLink(ctx context.Context, link string) (*event.Event, error)

	// ListEventsFrom returns events with date >= fromDate, ordered by
	// (date, start time). It bounds the working set for filtering.
	ListEventsFrom(ctx context.Context, fromDate string) ([]*event.Event, error)

	// ListEventsOn returns events on the exact date, for the advisory
	// near-duplicate check at ingestion time.
	ListEventsOn(ctx context.Context, date string) ([]*event.Event, error)
}

// GroupStore holds groups.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *event.Group) (string, error)
	GetGroup(ctx context.Context, id string) (*event.Group, error)
	GetGroupByName(ctx context.Context, name string) (*event.Group, error)
	ListGroups(ctx context.Context) ([]*event.Group, error)
}

// Store is the full persistence surface.
type Store interface {
	EventStore
	GroupStore

	// MergeGroups reparents all events of the duplicate groups onto the
	// kept group and deletes the duplicates, as one atomic unit. Used by
	// duplicate-group reconciliation only.
	MergeGroups(ctx context.Context, keepID string, duplicateIDs []string) error
}
