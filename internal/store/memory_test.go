package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

func TestMemoryEventRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateEvent(ctx, &event.Event{
		Title:  "Go Night",
		Date:   "2026-06-10",
		Link:   "https://www.meetup.com/utah-go-users/events/1/",
		Status: event.StatusApproved,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if id == "" {
		t.Fatal("CreateEvent returned empty id")
	}

	got, err := m.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.Title != "Go Night" {
		t.Errorf("Title = %q, want %q", got.Title, "Go Night")
	}

	byLink, err := m.GetEventByLink(ctx, "https://www.meetup.com/utah-go-users/events/1/")
	if err != nil {
		t.Fatalf("GetEventByLink: %v", err)
	}
	if byLink.ID != id {
		t.Errorf("GetEventByLink id = %q, want %q", byLink.ID, id)
	}

	if _, err := m.GetEvent(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEvent(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.GetEventByLink(ctx, "https://example.com/none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEventByLink(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdatePreservesLink(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateEvent(ctx, &event.Event{
		Title:  "Go Night",
		Date:   "2026-06-10",
		Link:   "https://www.meetup.com/utah-go-users/events/1/",
		Status: event.StatusApproved,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	updated := &event.Event{
		ID:     id,
		Title:  "Go Night (rescheduled)",
		Date:   "2026-06-17",
		Link:   "https://evil.example.com/other",
		Status: event.StatusApproved,
	}
	if err := m.UpdateEvent(ctx, updated); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}

	got, err := m.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.Title != "Go Night (rescheduled)" {
		t.Errorf("Title = %q, want updated title", got.Title)
	}
	if got.Link != "https://www.meetup.com/utah-go-users/events/1/" {
		t.Errorf("Link = %q, want original link preserved", got.Link)
	}

	if err := m.UpdateEvent(ctx, &event.Event{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateEvent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryCloneIsolation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := &event.Event{Title: "Original", Date: "2026-06-10", Tags: []string{"go"}}
	id, err := m.CreateEvent(ctx, in)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	// Mutating the caller's copy must not touch the stored row.
	in.Title = "Mutated"
	in.Tags[0] = "mutated"

	got, err := m.GetEvent(ctx, id)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if got.Title != "Original" {
		t.Errorf("Title = %q, store shares memory with caller", got.Title)
	}
	if got.Tags[0] != "go" {
		t.Errorf("Tags[0] = %q, store shares tag slice with caller", got.Tags[0])
	}
}

func TestMemoryListEventsOrdering(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed := []*event.Event{
		{Title: "c", Date: "2026-06-12", StartTime: "09:00"},
		{Title: "a", Date: "2026-06-10", StartTime: "19:00"},
		{Title: "b", Date: "2026-06-10", StartTime: "18:00"},
		{Title: "old", Date: "2026-06-01", StartTime: "12:00"},
	}
	for _, evt := range seed {
		if _, err := m.CreateEvent(ctx, evt); err != nil {
			t.Fatalf("CreateEvent(%s): %v", evt.Title, err)
		}
	}

	from, err := m.ListEventsFrom(ctx, "2026-06-10")
	if err != nil {
		t.Fatalf("ListEventsFrom: %v", err)
	}
	titles := make([]string, len(from))
	for i, evt := range from {
		titles[i] = evt.Title
	}
	want := []string{"b", "a", "c"}
	if len(titles) != len(want) {
		t.Fatalf("ListEventsFrom returned %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("ListEventsFrom[%d] = %q, want %q", i, titles[i], want[i])
		}
	}

	on, err := m.ListEventsOn(ctx, "2026-06-10")
	if err != nil {
		t.Fatalf("ListEventsOn: %v", err)
	}
	if len(on) != 2 || on[0].Title != "b" || on[1].Title != "a" {
		t.Errorf("ListEventsOn returned wrong set/order: %v", on)
	}
}

func TestMemoryGroupLookups(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.CreateGroup(ctx, &event.Group{
		Name:      "Utah Go Users",
		Status:    event.StatusApproved,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	byName, err := m.GetGroupByName(ctx, "Utah Go Users")
	if err != nil {
		t.Fatalf("GetGroupByName: %v", err)
	}
	if byName.ID != id {
		t.Errorf("GetGroupByName id = %q, want %q", byName.ID, id)
	}

	if _, err := m.GetGroupByName(ctx, "utah go users"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetGroupByName is expected to match exact names only, got err = %v", err)
	}
}

func TestMemoryListGroupsOrderedByCreation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	names := []struct {
		name string
		at   time.Time
	}{
		{"Second", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"First", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"Third", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, g := range names {
		if _, err := m.CreateGroup(ctx, &event.Group{Name: g.name, CreatedAt: g.at}); err != nil {
			t.Fatalf("CreateGroup(%s): %v", g.name, err)
		}
	}

	groups, err := m.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	want := []string{"First", "Second", "Third"}
	for i := range want {
		if groups[i].Name != want[i] {
			t.Errorf("ListGroups[%d] = %q, want %q", i, groups[i].Name, want[i])
		}
	}
}

func TestMemoryMergeGroups(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	keep, err := m.CreateGroup(ctx, &event.Group{Name: "Utah Go Users"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	dup, err := m.CreateGroup(ctx, &event.Group{Name: "Utah Go Users "})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	evtID, err := m.CreateEvent(ctx, &event.Event{Title: "Go Night", Date: "2026-06-10", GroupID: dup})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if err := m.MergeGroups(ctx, keep, []string{dup}); err != nil {
		t.Fatalf("MergeGroups: %v", err)
	}

	evt, err := m.GetEvent(ctx, evtID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if evt.GroupID != keep {
		t.Errorf("event GroupID = %q, want reparented to %q", evt.GroupID, keep)
	}
	if _, err := m.GetGroup(ctx, dup); !errors.Is(err, ErrNotFound) {
		t.Errorf("duplicate group still present, err = %v", err)
	}
	if _, err := m.GetGroup(ctx, keep); err != nil {
		t.Errorf("kept group missing: %v", err)
	}
}

func TestMemoryMergeGroupsValidatesIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	keep, err := m.CreateGroup(ctx, &event.Group{Name: "Utah Go Users"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if err := m.MergeGroups(ctx, "missing", []string{keep}); !errors.Is(err, ErrNotFound) {
		t.Errorf("MergeGroups(missing keep) error = %v, want ErrNotFound", err)
	}
	if err := m.MergeGroups(ctx, keep, []string{"missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("MergeGroups(missing dup) error = %v, want ErrNotFound", err)
	}

	// A failed merge must not delete the kept group.
	if _, err := m.GetGroup(ctx, keep); err != nil {
		t.Errorf("kept group missing after failed merge: %v", err)
	}
}
