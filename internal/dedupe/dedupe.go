// Package dedupe collapses near-duplicate events within a bounded working
// set. Two events are duplicates when they share a non-empty link, or when
// their normalized titles are similar enough and they fall on the same date.
package dedupe

import (
	"regexp"
	"strings"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// DefaultThreshold is the Jaccard similarity a title pair must exceed to be
// considered a duplicate on the same date.
const DefaultThreshold = 0.8

// Group pairs a surviving event with the duplicates that were collapsed
// into it, for inspection and operator reporting.
type Group struct {
	Original   *event.Event
	Duplicates []*event.Event
}

// Resolver finds and collapses near-duplicate events.
type Resolver struct {
	threshold float64
}

// New creates a resolver using the given similarity threshold.
func New(threshold float64) *Resolver {
	return &Resolver{threshold: threshold}
}

// Default returns a resolver with the production threshold.
func Default() *Resolver {
	return New(DefaultThreshold)
}

// FindGroups scans the events in input order and groups each unconsumed
// event with every later event that duplicates it. The earlier event is
// always the group's representative.
//
// This is a deliberate O(n²) pass: the working set is bounded by the feed
// lookback window, and replacing the scan with exact-match hashing would
// lose the fuzzy title matching.
func (r *Resolver) FindGroups(events []*event.Event) []Group {
	consumed := make([]bool, len(events))
	var groups []Group

	for i, a := range events {
		if consumed[i] {
			continue
		}
		group := Group{Original: a}
		for j := i + 1; j < len(events); j++ {
			if consumed[j] {
				continue
			}
			if r.isDuplicate(a, events[j]) {
				consumed[j] = true
				group.Duplicates = append(group.Duplicates, events[j])
			}
		}
		groups = append(groups, group)
	}

	return groups
}

// Resolve returns the input list with duplicate-marked events removed.
// Representatives are always the earlier event, and survivor order matches
// the input order. Resolve is idempotent.
func (r *Resolver) Resolve(events []*event.Event) []*event.Event {
	groups := r.FindGroups(events)
	survivors := make([]*event.Event, 0, len(groups))
	for _, g := range groups {
		survivors = append(survivors, g.Original)
	}
	return survivors
}

// isDuplicate reports whether b duplicates a: exact non-empty link match, or
// fuzzy title similarity above the threshold on the same calendar date.
func (r *Resolver) isDuplicate(a, b *event.Event) bool {
	if a.Link != "" && a.Link == b.Link {
		return true
	}
	return a.Date == b.Date && TitleSimilarity(a.Title, b.Title) > r.threshold
}

var nonWordChars = regexp.MustCompile(`[^a-z0-9\s]+`)

// TitleSimilarity returns the Jaccard similarity of the two titles' word
// sets after normalization (lowercase, punctuation stripped, whitespace
// collapsed). Identical normalized titles yield exactly 1.0.
func TitleSimilarity(a, b string) float64 {
	na := normalizeTitle(a)
	nb := normalizeTitle(b)
	if na == nb {
		return 1.0
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)

	intersection := 0
	for word := range setA {
		if setB[word] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = nonWordChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		set[word] = true
	}
	return set
}
