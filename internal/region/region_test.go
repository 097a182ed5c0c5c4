package region

import (
	"testing"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

func TestClassify(t *testing.T) {
	classifier := Default()

	tests := []struct {
		name  string
		event *event.Event
		want  Region
	}{
		{
			name:  "city field matches salt lake county",
			event: &event.Event{City: "Salt Lake City"},
			want:  SaltLakeCounty,
		},
		{
			name:  "venue name matches utah county",
			event: &event.Event{VenueName: "Startup Building, Provo"},
			want:  UtahCounty,
		},
		{
			name:  "address line matches northern utah",
			event: &event.Event{AddressLine1: "123 Main St, Ogden UT"},
			want:  NorthernUtah,
		},
		{
			name:  "location field matches southern utah",
			event: &event.Event{Location: "St. George Tech Ridge"},
			want:  SouthernUtah,
		},
		{
			name: "priority order prefers salt lake over utah county",
			event: &event.Event{
				Location: "Lehi satellite office",
				City:     "Salt Lake City",
			},
			want: SaltLakeCounty,
		},
		{
			name:  "no location fields yields unknown",
			event: &event.Event{Title: "Go Meetup"},
			want:  Unknown,
		},
		{
			name:  "unmatched city yields unknown",
			event: &event.Event{City: "Boise"},
			want:  Unknown,
		},
		{
			name: "accepted substring false positive",
			// "Richmond" is a Northern Utah gazetteer term even though this
			// is the Virginia city. Documented heuristic limitation.
			event: &event.Event{City: "Richmond, VA"},
			want:  NorthernUtah,
		},
		{
			name:  "case insensitive matching",
			event: &event.Event{City: "PROVO"},
			want:  UtahCounty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.event); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyAlternateGazetteer(t *testing.T) {
	classifier := New([]Gazetteer{
		{Region: NorthernUtah, Terms: []string{"testville"}},
	})

	evt := &event.Event{City: "Testville"}
	if got := classifier.Classify(evt); got != NorthernUtah {
		t.Errorf("Classify() = %v, want %v", got, NorthernUtah)
	}

	evt = &event.Event{City: "Salt Lake City"}
	if got := classifier.Classify(evt); got != Unknown {
		t.Errorf("Classify() with alternate gazetteer = %v, want %v", got, Unknown)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Region
		wantOK bool
	}{
		{"Salt Lake County", SaltLakeCounty, true},
		{"saltlakecounty", SaltLakeCounty, true},
		{"northern utah", NorthernUtah, true},
		{" Utah County ", UtahCounty, true},
		{"unknown", Unknown, true},
		{"mars", Unknown, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
