// Package filter composes region, online, date, group and tag predicates
// into one filtering pass shared by the web UI, the iCal export and the RSS
// export, so all three consumers agree on what an active filter means.
//
// Stages run in a fixed order, each on the survivors of the previous one:
//
//  1. upcoming cutoff (optional)
//  2. duplicate resolution
//  3. visibility (event approved; owning group approved or absent)
//  4. exact date (optional)
//  5. online exclusion (optional)
//  6. region membership (optional)
//  7. group/tag combination
//
// Group and tag criteria combine with inclusive OR when both are set, so
// widening either filter only ever adds results. Category filters combine
// with AND across stages.
package filter

import (
	"sort"

	"github.com/utahdevs/utah-dev-events/internal/dedupe"
	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/online"
	"github.com/utahdevs/utah-dev-events/internal/region"
)

// Criteria holds the compound filter selections. Zero values mean "no
// filtering" for every field.
type Criteria struct {
	GroupIDs      []string
	Tags          []string
	Regions       []region.Region
	ExcludeOnline bool

	// Date, when set ("2006-01-02"), keeps only events on that exact day.
	Date string

	// OnlyUpcoming drops events before Today.
	OnlyUpcoming bool

	// Today is the caller-supplied current Mountain-local date, so feed
	// handlers and tests agree on what "upcoming" means.
	Today string
}

// Engine applies Criteria to a working set of events.
type Engine struct {
	classifier *region.Classifier
	detector   *online.Detector
	resolver   *dedupe.Resolver
}

// New creates an engine from its three classifiers.
func New(classifier *region.Classifier, detector *online.Detector, resolver *dedupe.Resolver) *Engine {
	return &Engine{
		classifier: classifier,
		detector:   detector,
		resolver:   resolver,
	}
}

// Default returns an engine wired with the production classifier, detector
// and resolver.
func Default() *Engine {
	return New(region.Default(), online.Default(), dedupe.Default())
}

// Apply runs the filter pipeline over events. groups maps group id to group
// for visibility checks and tag fallback; events referencing an unknown
// group are treated as not visible.
func (e *Engine) Apply(events []*event.Event, groups map[string]*event.Group, c Criteria) []*event.Event {
	out := events

	if c.OnlyUpcoming && c.Today != "" {
		out = keep(out, func(evt *event.Event) bool {
			return evt.Date >= c.Today
		})
	}

	out = e.resolver.Resolve(out)

	out = keep(out, func(evt *event.Event) bool {
		return visible(evt, groups)
	})

	if c.Date != "" {
		out = keep(out, func(evt *event.Event) bool {
			return evt.Date == c.Date
		})
	}

	if c.ExcludeOnline {
		out = keep(out, func(evt *event.Event) bool {
			return !e.detector.IsOnline(evt)
		})
	}

	if len(c.Regions) > 0 {
		selected := make(map[region.Region]bool, len(c.Regions))
		for _, r := range c.Regions {
			selected[r] = true
		}
		out = keep(out, func(evt *event.Event) bool {
			return selected[e.classifier.Classify(evt)]
		})
	}

	out = e.applyGroupTag(out, groups, c)

	return out
}

// applyGroupTag implements the group/tag combination stage. With both
// selections empty it is a no-op. With one set, that one criterion decides.
// With both set, an event passes when either matches (inclusive OR).
func (e *Engine) applyGroupTag(events []*event.Event, groups map[string]*event.Group, c Criteria) []*event.Event {
	if len(c.GroupIDs) == 0 && len(c.Tags) == 0 {
		return events
	}

	selectedGroups := make(map[string]bool, len(c.GroupIDs))
	for _, id := range c.GroupIDs {
		selectedGroups[id] = true
	}
	selectedTags := make(map[string]bool, len(c.Tags))
	for _, tag := range c.Tags {
		selectedTags[tag] = true
	}

	return keep(events, func(evt *event.Event) bool {
		groupMatch := evt.HasGroup() && selectedGroups[evt.GroupID]
		tagMatch := false
		for _, tag := range evt.EffectiveTags(groups[evt.GroupID]) {
			if selectedTags[tag] {
				tagMatch = true
				break
			}
		}

		switch {
		case len(c.GroupIDs) > 0 && len(c.Tags) > 0:
			return groupMatch || tagMatch
		case len(c.GroupIDs) > 0:
			return groupMatch
		default:
			return tagMatch
		}
	})
}

// visible reports whether an event may be exposed externally: the event is
// approved, and its group (when it has one) is approved too. Unlisted events
// only need their own approval.
func visible(evt *event.Event, groups map[string]*event.Group) bool {
	if evt.Status != event.StatusApproved {
		return false
	}
	if !evt.HasGroup() {
		return true
	}
	group, ok := groups[evt.GroupID]
	return ok && group.Approved()
}

// SortForFeed orders events by (date ascending, start time ascending),
// stably, the ordering contract for feed rendering. UI consumers may
// re-sort.
func SortForFeed(events []*event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].StartTime < events[j].StartTime
	})
}

func keep(events []*event.Event, pred func(*event.Event) bool) []*event.Event {
	out := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if pred(evt) {
			out = append(out, evt)
		}
	}
	return out
}
