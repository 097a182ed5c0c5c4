package event

import (
	"testing"
	"time"
)

func TestSplitMountain(t *testing.T) {
	tests := []struct {
		name      string
		utc       time.Time
		wantDate  string
		wantClock string
	}{
		{
			name:      "winter is MST (UTC-7)",
			utc:       time.Date(2026, 1, 15, 2, 30, 0, 0, time.UTC),
			wantDate:  "2026-01-14",
			wantClock: "19:30",
		},
		{
			name:      "summer is MDT (UTC-6)",
			utc:       time.Date(2026, 7, 15, 1, 0, 0, 0, time.UTC),
			wantDate:  "2026-07-14",
			wantClock: "19:00",
		},
		{
			name:      "date rolls back across midnight",
			utc:       time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC),
			wantDate:  "2026-02-28",
			wantClock: "21:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, clock := SplitMountain(tt.utc)
			if date != tt.wantDate || clock != tt.wantClock {
				t.Errorf("SplitMountain() = (%s, %s), want (%s, %s)", date, clock, tt.wantDate, tt.wantClock)
			}
		})
	}
}

func TestCombineMountain(t *testing.T) {
	got, err := CombineMountain("2026-06-10", "18:30")
	if err != nil {
		t.Fatalf("CombineMountain() error = %v", err)
	}
	if got.Hour() != 18 || got.Minute() != 30 {
		t.Errorf("CombineMountain() clock = %02d:%02d, want 18:30", got.Hour(), got.Minute())
	}
	// June is MDT.
	_, offset := got.Zone()
	if offset != -6*60*60 {
		t.Errorf("CombineMountain() offset = %d, want -21600", offset)
	}

	if _, err := CombineMountain("not-a-date", ""); err == nil {
		t.Error("CombineMountain() expected error for bad date")
	}
	if _, err := CombineMountain("2026-06-10", "25:99"); err == nil {
		t.Error("CombineMountain() expected error for bad clock")
	}
}

func TestEffectiveTags(t *testing.T) {
	group := &Group{Tags: []string{"golang", "slc"}}

	evt := &Event{Tags: []string{"rust"}}
	if got := evt.EffectiveTags(group); len(got) != 1 || got[0] != "rust" {
		t.Errorf("EffectiveTags() = %v, want event's own tags", got)
	}

	evt = &Event{}
	if got := evt.EffectiveTags(group); len(got) != 2 || got[0] != "golang" {
		t.Errorf("EffectiveTags() = %v, want group tags", got)
	}

	if got := evt.EffectiveTags(nil); got != nil {
		t.Errorf("EffectiveTags(nil) = %v, want nil", got)
	}
}

func TestLocationText(t *testing.T) {
	evt := &Event{
		Location:     "  Kiln SLC ",
		City:         "Salt Lake City",
		AddressLine1: "26 S Rio Grande St",
	}
	want := "kiln slc salt lake city 26 s rio grande st"
	if got := evt.LocationText(); got != want {
		t.Errorf("LocationText() = %q, want %q", got, want)
	}

	empty := &Event{}
	if got := empty.LocationText(); got != "" {
		t.Errorf("LocationText() on empty event = %q, want empty", got)
	}
}
