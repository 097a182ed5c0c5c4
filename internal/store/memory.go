package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// Memory is an in-memory Store used by tests and local runs. All methods
// copy on the way in and out so callers never share mutable state with the
// store.
type Memory struct {
	mu        sync.RWMutex
	events    map[string]*event.Event
	groups    map[string]*event.Group
	linkIndex map[string]string // link → event id
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		events:    make(map[string]*event.Event),
		groups:    make(map[string]*event.Group),
		linkIndex: make(map[string]string),
	}
}

// CreateEvent stores a copy of evt under a fresh id and returns the id.
func (m *Memory) CreateEvent(_ context.Context, evt *event.Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dup := evt.Clone()
	dup.ID = uuid.NewString()
	m.events[dup.ID] = dup
	if dup.Link != "" {
		m.linkIndex[dup.Link] = dup.ID
	}
	return dup.ID, nil
}

// UpdateEvent overwrites the stored event with the same id.
func (m *Memory) UpdateEvent(_ context.Context, evt *event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.events[evt.ID]
	if !ok {
		return fmt.Errorf("updating event %s: %w", evt.ID, ErrNotFound)
	}

	dup := evt.Clone()
	// Link is immutable once set from a scrape source.
	if existing.Link != "" {
		dup.Link = existing.Link
	}
	m.events[dup.ID] = dup
	if dup.Link != "" {
		m.linkIndex[dup.Link] = dup.ID
	}
	return nil
}

// GetEvent returns the event with the given id.
func (m *Memory) GetEvent(_ context.Context, id string) (*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	evt, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return evt.Clone(), nil
}

// GetEventByLink returns the event with the given link.
func (m *Memory) GetEventByLink(_ context.Context, link string) (*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.linkIndex[link]
	if !ok {
		return nil, ErrNotFound
	}
	return m.events[id].Clone(), nil
}

// ListEventsFrom returns events with date >= fromDate ordered by
// (date, start time).
func (m *Memory) ListEventsFrom(_ context.Context, fromDate string) ([]*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*event.Event, 0)
	for _, evt := range m.events {
		if evt.Date >= fromDate {
			out = append(out, evt.Clone())
		}
	}
	sortEvents(out)
	return out, nil
}

// ListEventsOn returns events on the exact date ordered by start time.
func (m *Memory) ListEventsOn(_ context.Context, date string) ([]*event.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*event.Event, 0)
	for _, evt := range m.events {
		if evt.Date == date {
			out = append(out, evt.Clone())
		}
	}
	sortEvents(out)
	return out, nil
}

// CreateGroup stores a copy of group under a fresh id and returns the id.
func (m *Memory) CreateGroup(_ context.Context, group *event.Group) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dup := group.Clone()
	dup.ID = uuid.NewString()
	m.groups[dup.ID] = dup
	return dup.ID, nil
}

// GetGroup returns the group with the given id.
func (m *Memory) GetGroup(_ context.Context, id string) (*event.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	group, ok := m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return group.Clone(), nil
}

// GetGroupByName returns the group with the exact name.
func (m *Memory) GetGroupByName(_ context.Context, name string) (*event.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, group := range m.groups {
		if group.Name == name {
			return group.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// ListGroups returns all groups ordered by creation time.
func (m *Memory) ListGroups(_ context.Context) ([]*event.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*event.Group, 0, len(m.groups))
	for _, group := range m.groups {
		out = append(out, group.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MergeGroups reparents the duplicates' events onto keepID and deletes the
// duplicate groups, all under one lock so no reader observes a half-merged
// set.
func (m *Memory) MergeGroups(_ context.Context, keepID string, duplicateIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[keepID]; !ok {
		return fmt.Errorf("merging into group %s: %w", keepID, ErrNotFound)
	}

	drop := make(map[string]bool, len(duplicateIDs))
	for _, id := range duplicateIDs {
		if _, ok := m.groups[id]; !ok {
			return fmt.Errorf("merging group %s: %w", id, ErrNotFound)
		}
		drop[id] = true
	}

	for _, evt := range m.events {
		if drop[evt.GroupID] {
			evt.GroupID = keepID
		}
	}
	for id := range drop {
		delete(m.groups, id)
	}
	return nil
}

func sortEvents(events []*event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].StartTime != events[j].StartTime {
			return events[i].StartTime < events[j].StartTime
		}
		return events[i].ID < events[j].ID
	})
}
