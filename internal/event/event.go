package event

import (
	"strings"
	"time"
)

// Status is the moderation state of an event. Only approved events are ever
// exposed through feeds or the UI.
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Event represents a single community event in the store.
//
// All location fields are optional free text; no field is guaranteed present.
// Link, once set from a scrape source, is the identity of the event for
// upserts and must not change on update.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Date is the Mountain-local calendar date ("2006-01-02").
	// StartTime and EndTime are optional Mountain-local times of day
	// ("15:04"); empty means absent.
	Date      string `json:"event_date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	Location      string `json:"location,omitempty"`
	VenueName     string `json:"venue_name,omitempty"`
	AddressLine1  string `json:"address_line_1,omitempty"`
	AddressLine2  string `json:"address_line_2,omitempty"`
	City          string `json:"city,omitempty"`
	StateProvince string `json:"state_province,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country,omitempty"`

	Link  string `json:"link,omitempty"`
	Image string `json:"image,omitempty"`

	// Tags may be empty, in which case filtering falls back to the owning
	// group's tags.
	Tags []string `json:"tags,omitempty"`

	// GroupID is empty for unlisted events, which are always visible
	// regardless of group approval status.
	GroupID string `json:"group_id,omitempty"`

	Status Status `json:"status"`
}

// HasGroup reports whether the event belongs to a group.
func (e *Event) HasGroup() bool {
	return e.GroupID != ""
}

// EffectiveTags returns the event's own tags, or the owning group's tags when
// the event has none. The returned slice must not be mutated.
func (e *Event) EffectiveTags(group *Group) []string {
	if len(e.Tags) > 0 {
		return e.Tags
	}
	if group != nil {
		return group.Tags
	}
	return nil
}

// LocationText concatenates the free-text location fields into a single
// lowercase string for classification. Absent fields are skipped.
func (e *Event) LocationText() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{e.Location, e.VenueName, e.City, e.AddressLine1, e.AddressLine2} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	dup := *e
	if len(e.Tags) > 0 {
		dup.Tags = make([]string, len(e.Tags))
		copy(dup.Tags, e.Tags)
	}
	return &dup
}

// Group represents an event-owning community group.
type Group struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`

	// Tags is the default tag set inherited by events that carry no tags
	// of their own.
	Tags []string `json:"tags,omitempty"`

	// MeetupLink and LumaLink identify the group's external source page.
	// Each is expected unique across groups; duplicates are a repairable
	// anomaly handled by group reconciliation, not a write-time constraint.
	MeetupLink string `json:"meetup_link,omitempty"`
	LumaLink   string `json:"luma_link,omitempty"`

	Location    string    `json:"location,omitempty"`
	Website     string    `json:"website,omitempty"`
	BannerImage string    `json:"banner_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Approved reports whether the group may surface its events.
func (g *Group) Approved() bool {
	return g.Status == StatusApproved
}

// Clone returns a deep copy of the group.
func (g *Group) Clone() *Group {
	dup := *g
	if len(g.Tags) > 0 {
		dup.Tags = make([]string, len(g.Tags))
		copy(dup.Tags, g.Tags)
	}
	return &dup
}
