package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/utahdevs/utah-dev-events/internal/event"
	"github.com/utahdevs/utah-dev-events/internal/logger"
)

// rfc2822 is the pubDate layout required by RSS 2.0.
const rfc2822 = "Mon, 02 Jan 2006 15:04:05 -0700"

// RenderRSS produces an RSS 2.0 document with one item per event. The
// envelope is valid even for zero events.
func RenderRSS(events []*event.Event, groups map[string]*event.Group, now time.Time) string {
	var b strings.Builder

	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<rss version=\"2.0\">\n")
	b.WriteString("<channel>\n")
	b.WriteString("<title>" + escapeXML(calendarName) + "</title>\n")
	b.WriteString("<link>https://" + SiteDomain + "</link>\n")
	b.WriteString("<description>Upcoming developer and tech community events across Utah</description>\n")
	b.WriteString("<language>en-us</language>\n")
	b.WriteString("<lastBuildDate>" + now.In(event.MountainLocation()).Format(rfc2822) + "</lastBuildDate>\n")

	for _, evt := range events {
		item, err := renderItem(evt, groups[evt.GroupID])
		if err != nil {
			logger.Warn("skipping unrenderable event in RSS feed", logger.Fields{
				"event_id": evt.ID,
				"reason":   err.Error(),
			})
			continue
		}
		b.WriteString(item)
	}

	b.WriteString("</channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

func renderItem(evt *event.Event, group *event.Group) (string, error) {
	pub, err := event.CombineMountain(evt.Date, evt.StartTime)
	if err != nil {
		return "", fmt.Errorf("event date: %w", err)
	}

	groupName := UnlistedGroupName
	if group != nil {
		groupName = group.Name
	}

	var b strings.Builder
	b.WriteString("<item>\n")
	b.WriteString("<title>" + escapeXML(groupName+": "+evt.Title) + "</title>\n")
	b.WriteString("<link>" + escapeXML(itemLink(evt)) + "</link>\n")
	b.WriteString("<guid isPermaLink=\"false\">" + escapeXML(evt.ID) + "</guid>\n")
	b.WriteString("<pubDate>" + pub.Format(rfc2822) + "</pubDate>\n")
	b.WriteString("<description>" + escapeXML(composeDescription(evt, groupName)) + "</description>\n")
	for _, tag := range evt.Tags {
		b.WriteString("<category>" + escapeXML(tag) + "</category>\n")
	}
	b.WriteString("</item>\n")
	return b.String(), nil
}

// itemLink returns the event's own link, or a synthesized anchor on the
// canonical site for events scraped without one.
func itemLink(evt *event.Event) string {
	if evt.Link != "" {
		return evt.Link
	}
	return fmt.Sprintf("https://%s/#event-%s", SiteDomain, slug.Make(evt.Title))
}

// escapeXML escapes the five XML entities. Ampersand must go first.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
