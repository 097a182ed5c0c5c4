package dedupe

import (
	"testing"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{
			name: "identical titles",
			a:    "Go Meetup",
			b:    "Go Meetup",
			want: 1.0,
		},
		{
			name: "identical after normalization",
			a:    "Go Meetup!!!",
			b:    "go   meetup",
			want: 1.0,
		},
		{
			name: "disjoint titles",
			a:    "Rust Night",
			b:    "Python Social",
			want: 0.0,
		},
		{
			name: "partial overlap",
			// {utah, go, users} vs {utah, go, meetup}: 2/4
			a:    "Utah Go Users",
			b:    "Utah Go Meetup",
			want: 0.5,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestResolveLinkMatch(t *testing.T) {
	resolver := Default()

	a := &event.Event{ID: "1", Title: "Go Night", Link: "https://meetup.com/go/1"}
	b := &event.Event{ID: "2", Title: "Completely Different", Link: "https://meetup.com/go/1"}
	c := &event.Event{ID: "3", Title: "Unrelated", Link: "https://meetup.com/go/2"}

	got := resolver.Resolve([]*event.Event{a, b, c})
	if len(got) != 2 {
		t.Fatalf("Resolve() returned %d events, want 2", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Resolve() kept %s, %s; want 1, 3", got[0].ID, got[1].ID)
	}
}

func TestResolveEmptyLinksDoNotMatch(t *testing.T) {
	resolver := Default()

	a := &event.Event{ID: "1", Title: "Alpha", Date: "2026-05-01"}
	b := &event.Event{ID: "2", Title: "Beta", Date: "2026-05-02"}

	got := resolver.Resolve([]*event.Event{a, b})
	if len(got) != 2 {
		t.Errorf("Resolve() collapsed events with empty links, got %d survivors", len(got))
	}
}

func TestResolveFuzzyTitleSameDate(t *testing.T) {
	resolver := Default()

	tests := []struct {
		name      string
		a, b      *event.Event
		wantCount int
	}{
		{
			name:      "similar titles on same date collapse",
			a:         &event.Event{ID: "1", Title: "Utah Go Users Group Monthly Meetup", Date: "2026-05-01"},
			b:         &event.Event{ID: "2", Title: "Utah Go Users Group: Monthly Meetup!", Date: "2026-05-01"},
			wantCount: 1,
		},
		{
			name:      "similar titles on different dates survive",
			a:         &event.Event{ID: "1", Title: "Utah Go Users Group Monthly Meetup", Date: "2026-05-01"},
			b:         &event.Event{ID: "2", Title: "Utah Go Users Group: Monthly Meetup!", Date: "2026-06-01"},
			wantCount: 2,
		},
		{
			name:      "similarity at or below threshold survives",
			a:         &event.Event{ID: "1", Title: "Utah Go Users", Date: "2026-05-01"},
			b:         &event.Event{ID: "2", Title: "Utah Go Meetup", Date: "2026-05-01"},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve([]*event.Event{tt.a, tt.b})
			if len(got) != tt.wantCount {
				t.Errorf("Resolve() returned %d events, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	resolver := Default()

	events := []*event.Event{
		{ID: "1", Title: "Go Night", Date: "2026-05-01", Link: "https://lu.ma/a"},
		{ID: "2", Title: "Go Night", Date: "2026-05-01", Link: "https://lu.ma/a"},
		{ID: "3", Title: "Go Night SLC", Date: "2026-05-01"},
		{ID: "4", Title: "Rust Evening", Date: "2026-05-01"},
	}

	once := resolver.Resolve(events)
	twice := resolver.Resolve(once)

	if len(once) != len(twice) {
		t.Fatalf("Resolve() not idempotent: %d then %d survivors", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("Resolve() not idempotent at index %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestFindGroups(t *testing.T) {
	resolver := Default()

	a := &event.Event{ID: "1", Title: "Go Night", Link: "https://lu.ma/a"}
	b := &event.Event{ID: "2", Title: "Go Night", Link: "https://lu.ma/a"}
	c := &event.Event{ID: "3", Title: "Rust Evening"}

	groups := resolver.FindGroups([]*event.Event{a, b, c})
	if len(groups) != 2 {
		t.Fatalf("FindGroups() returned %d groups, want 2", len(groups))
	}
	if groups[0].Original.ID != "1" || len(groups[0].Duplicates) != 1 || groups[0].Duplicates[0].ID != "2" {
		t.Errorf("FindGroups() first group = %+v, want original 1 with duplicate 2", groups[0])
	}
	if groups[1].Original.ID != "3" || len(groups[1].Duplicates) != 0 {
		t.Errorf("FindGroups() second group = %+v, want original 3 with no duplicates", groups[1])
	}
}
