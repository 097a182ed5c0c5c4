package event

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DateLayout is the wire/store format for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire/store format for times of day.
	ClockLayout = "15:04"
)

var (
	mountainOnce sync.Once
	mountainLoc  *time.Location
)

// MountainLocation returns the America/Denver location used to normalize all
// event dates and times. Falls back to a fixed MST offset if the IANA
// database is unavailable; the fixed zone loses DST handling.
func MountainLocation() *time.Location {
	mountainOnce.Do(func() {
		loc, err := time.LoadLocation("America/Denver")
		if err != nil {
			loc = time.FixedZone("MST", -7*60*60)
		}
		mountainLoc = loc
	})
	return mountainLoc
}

// SplitMountain converts a UTC instant to a Mountain-local calendar date and
// time of day, accounting for DST via the America/Denver rules.
func SplitMountain(t time.Time) (date, clock string) {
	local := t.In(MountainLocation())
	return local.Format(DateLayout), local.Format(ClockLayout)
}

// Today returns the current Mountain-local calendar date.
func Today(now time.Time) string {
	return now.In(MountainLocation()).Format(DateLayout)
}

// CombineMountain builds a Mountain-local time.Time from a stored date and
// optional clock string. An empty clock yields midnight.
func CombineMountain(date, clock string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, MountainLocation())
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	if clock == "" {
		return d, nil
	}
	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, MountainLocation()), nil
}
