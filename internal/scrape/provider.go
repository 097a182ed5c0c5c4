package scrape

import (
	"net/url"
	"strings"
)

// Provider identifies which scraper backend serves a source URL. The
// scraping service does its own routing; the aggregator only needs the
// provider to populate group source-link fields and to reject URLs no
// backend can handle.
type Provider string

const (
	ProviderMeetup      Provider = "meetup"
	ProviderLuma        Provider = "luma"
	ProviderEventbrite  Provider = "eventbrite"
	ProviderBYUCS       Provider = "byu-cs"
	ProviderUtahCS      Provider = "utah-cs"
	ProviderMiscWebsite Provider = "misc"
	ProviderUnknown     Provider = "unknown"
)

// miscHosts are the community sites the misc-website scraper knows about.
var miscHosts = []string{
	"kiln.utah.gov",
	"wework.com",
	"siliconslopestechsummit.com",
	"utahgeekevents.com",
}

// DetectProvider maps a source URL to its scraper backend by hostname.
// Unrecognized URLs yield ProviderUnknown and should be rejected as
// ingestion sources.
func DetectProvider(rawURL string) Provider {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ProviderUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return ProviderUnknown
	}

	switch {
	case hostMatches(host, "meetup.com"):
		return ProviderMeetup
	case hostMatches(host, "lu.ma"):
		return ProviderLuma
	case hostMatches(host, "eventbrite.com"):
		return ProviderEventbrite
	case hostMatches(host, "cs.byu.edu") || hostMatches(host, "byu.edu"):
		return ProviderBYUCS
	case hostMatches(host, "cs.utah.edu"):
		return ProviderUtahCS
	}

	for _, misc := range miscHosts {
		if hostMatches(host, misc) {
			return ProviderMiscWebsite
		}
	}
	return ProviderUnknown
}

// hostMatches reports whether host is domain or a subdomain of it.
func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
