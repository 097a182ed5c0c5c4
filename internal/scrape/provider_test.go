package scrape

import "testing"

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url  string
		want Provider
	}{
		{"https://www.meetup.com/utah-go-users/", ProviderMeetup},
		{"https://meetup.com/slc-python", ProviderMeetup},
		{"https://lu.ma/utahjs", ProviderLuma},
		{"https://www.eventbrite.com/o/silicon-slopes-123", ProviderEventbrite},
		{"https://cs.byu.edu/events/", ProviderBYUCS},
		{"https://www.cs.utah.edu/calendar/", ProviderUtahCS},
		{"https://kiln.utah.gov/events", ProviderMiscWebsite},
		{"https://utahgeekevents.com/", ProviderMiscWebsite},
		{"https://example.com/events", ProviderUnknown},
		{"https://notmeetup.com/x", ProviderUnknown},
		{"not a url", ProviderUnknown},
		{"", ProviderUnknown},
	}

	for _, tt := range tests {
		if got := DetectProvider(tt.url); got != tt.want {
			t.Errorf("DetectProvider(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
