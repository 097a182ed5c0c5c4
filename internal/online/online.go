// Package online decides whether an event is virtual or in-person using
// tiered signal strength: venue and location fields outrank description and
// title, because organizers are more precise there.
package online

import (
	"regexp"
	"strings"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// Word lists are fixed configuration, injected at construction so tests can
// substitute alternates.
var (
	defaultPlatforms = []string{
		"zoom", "google meet", "teams", "webex", "gotomeeting", "jitsi",
		"discord",
	}
	defaultIndicators = []string{
		"online", "virtual", "remote", "webinar", "livestream", "stream",
		"digital", "internet", "web-based", "video call", "video conference",
		"teleconference", "hangout",
	}
	defaultStreetSuffixes = []string{
		"street", "st", "avenue", "ave", "road", "rd", "lane", "ln",
		"drive", "dr",
	}
)

// Detector classifies events as online or in-person.
type Detector struct {
	platforms    *regexp.Regexp
	indicators   *regexp.Regexp
	urlPattern   *regexp.Regexp
	streetNumber *regexp.Regexp
	streetSuffix *regexp.Regexp
}

// New creates a detector with the given platform names, online-indicator
// words and street-suffix words. All are matched as whole words, not raw
// substrings, so "meet" never fires inside "Meetup".
func New(platforms, indicators, streetSuffixes []string) *Detector {
	return &Detector{
		platforms:    wordListPattern(platforms),
		indicators:   wordListPattern(indicators),
		urlPattern:   regexp.MustCompile(`https?://\S+`),
		streetNumber: regexp.MustCompile(`(?:^|\s)\d{1,5}\s+[a-z]`),
		streetSuffix: wordListPattern(streetSuffixes),
	}
}

// Default returns a detector with the production word lists.
func Default() *Detector {
	return New(defaultPlatforms, defaultIndicators, defaultStreetSuffixes)
}

// wordListPattern compiles a whole-word alternation for the given terms.
func wordListPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(t))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// IsOnline reports whether the event is virtual.
//
// Venue tier first: location + venue_name. A platform name, URL or indicator
// word there means online; a physical-address pattern there means in-person
// and short-circuits, overriding anything the content tier would find.
// Content tier second: description + title, same online checks.
// No signal at all means in-person.
func (d *Detector) IsOnline(evt *event.Event) bool {
	venueText := joinLower(evt.Location, evt.VenueName)
	if venueText != "" {
		switch {
		case d.platforms.MatchString(venueText):
			return true
		case d.urlPattern.MatchString(venueText):
			return true
		case d.indicators.MatchString(venueText):
			return true
		case d.streetNumber.MatchString(venueText) || d.streetSuffix.MatchString(venueText):
			return false
		}
	}

	contentText := joinLower(evt.Description, evt.Title)
	if contentText != "" {
		if d.platforms.MatchString(contentText) ||
			d.urlPattern.MatchString(contentText) ||
			d.indicators.MatchString(contentText) {
			return true
		}
	}

	return false
}

func joinLower(parts ...string) string {
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			joined = append(joined, p)
		}
	}
	return strings.ToLower(strings.Join(joined, " "))
}
