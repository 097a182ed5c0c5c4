// Package feed renders filtered, ordered event lists into iCalendar and
// RSS 2.0 documents. Both renderers are pure functions of the event list and
// a group lookup, and both produce a well-formed envelope even for zero
// events. A single malformed event is skipped, never failing the whole feed.
package feed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/logger"
)

const (
	// SiteDomain is the canonical site host used for UIDs and synthesized
	// event links.
	SiteDomain = "utahdevs.events"

	// UnlistedGroupName is the sentinel shown for events without a group.
	UnlistedGroupName = "Unlisted Group"

	calendarName = "Utah Dev Events"
	timezoneID   = "America/Denver"
)

// vtimezone encodes the US Mountain DST rule: MDT from the second Sunday of
// March, MST from the first Sunday of November.
const vtimezone = "BEGIN:VTIMEZONE\r\n" +
	"TZID:" + timezoneID + "\r\n" +
	"BEGIN:DAYLIGHT\r\n" +
	"TZOFFSETFROM:-0700\r\n" +
	"TZOFFSETTO:-0600\r\n" +
	"TZNAME:MDT\r\n" +
	"DTSTART:19700308T020000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=2SU\r\n" +
	"END:DAYLIGHT\r\n" +
	"BEGIN:STANDARD\r\n" +
	"TZOFFSETFROM:-0600\r\n" +
	"TZOFFSETTO:-0700\r\n" +
	"TZNAME:MST\r\n" +
	"DTSTART:19701101T020000\r\n" +
	"RRULE:FREQ=YEARLY;BYMONTH=11;BYDAY=1SU\r\n" +
	"END:STANDARD\r\n" +
	"END:VTIMEZONE\r\n"

var urlPattern = regexp.MustCompile(`https?://\S+`)

// RenderICal produces a VCALENDAR document with one VEVENT per event.
// groups maps group id to group for SUMMARY and DESCRIPTION composition.
func RenderICal(events []*event.Event, groups map[string]*event.Group, now time.Time) string {
	var cal strings.Builder

	cal.WriteString("BEGIN:VCALENDAR\r\n")
	cal.WriteString("VERSION:2.0\r\n")
	cal.WriteString("PRODID:-//Utah Dev Events//utah-dev-events//EN\r\n")
	cal.WriteString("CALSCALE:GREGORIAN\r\n")
	cal.WriteString("METHOD:PUBLISH\r\n")
	cal.WriteString("X-WR-CALNAME:" + calendarName + "\r\n")
	cal.WriteString("X-WR-TIMEZONE:" + timezoneID + "\r\n")
	cal.WriteString(vtimezone)

	stamp := now.UTC().Format("20060102T150405Z")
	for _, evt := range events {
		block, err := renderVEvent(evt, groups[evt.GroupID], stamp)
		if err != nil {
			logger.Warn("skipping unrenderable event in iCal feed", logger.Fields{
				"event_id": evt.ID,
				"reason":   err.Error(),
			})
			continue
		}
		cal.WriteString(block)
	}

	cal.WriteString("END:VCALENDAR\r\n")
	return cal.String()
}

// renderVEvent builds one VEVENT block. Missing end time defaults to start
// plus one hour, or 23:59 when the event has no start time at all.
func renderVEvent(evt *event.Event, group *event.Group, stamp string) (string, error) {
	start, err := event.CombineMountain(evt.Date, evt.StartTime)
	if err != nil {
		return "", fmt.Errorf("event start: %w", err)
	}

	var end time.Time
	switch {
	case evt.EndTime != "":
		end, err = event.CombineMountain(evt.Date, evt.EndTime)
		if err != nil {
			return "", fmt.Errorf("event end: %w", err)
		}
	case evt.StartTime != "":
		end = start.Add(time.Hour)
	default:
		end, err = event.CombineMountain(evt.Date, "23:59")
		if err != nil {
			return "", fmt.Errorf("event end: %w", err)
		}
	}

	groupName := UnlistedGroupName
	if group != nil {
		groupName = group.Name
	}

	var b strings.Builder
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString(fmt.Sprintf("UID:%s@%s\r\n", evt.ID, SiteDomain))
	b.WriteString("DTSTAMP:" + stamp + "\r\n")
	b.WriteString(fmt.Sprintf("DTSTART;TZID=%s:%s\r\n", timezoneID, start.Format("20060102T150405")))
	b.WriteString(fmt.Sprintf("DTEND;TZID=%s:%s\r\n", timezoneID, end.Format("20060102T150405")))
	b.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICal(groupName+": "+evt.Title)))
	b.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICal(composeDescription(evt, groupName))))

	if location := locationLine(evt); location != "" {
		b.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICal(location)))
	}
	if evt.Link != "" {
		b.WriteString("URL:" + evt.Link + "\r\n")
	}

	b.WriteString("STATUS:CONFIRMED\r\n")
	b.WriteString("TRANSP:OPAQUE\r\n")
	b.WriteString("END:VEVENT\r\n")
	return b.String(), nil
}

// composeDescription builds the DESCRIPTION text from the event description,
// its tag list and the owning group's name.
func composeDescription(evt *event.Event, groupName string) string {
	parts := make([]string, 0, 3)
	if evt.Description != "" {
		parts = append(parts, evt.Description)
	}
	if len(evt.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(evt.Tags, ", "))
	}
	parts = append(parts, "Hosted by: "+groupName)
	return strings.Join(parts, "\n\n")
}

// locationLine joins the event's location fields and strips embedded URLs;
// calendar clients treat LOCATION as a place, not a hyperlink.
func locationLine(evt *event.Event) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{evt.VenueName, evt.Location, evt.AddressLine1, evt.City, evt.StateProvince} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	joined := urlPattern.ReplaceAllString(strings.Join(parts, ", "), "")
	return strings.TrimSpace(strings.Trim(joined, ", "))
}

// escapeICal escapes TEXT values per RFC 5545: backslash, semicolon, comma
// and a literal \n for newlines.
func escapeICal(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
