package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies this aggregator to the scraping service.
	UserAgent = "utah-dev-events/1.0 (github.com/utahdevs/utah-dev-events)"

	requestTimeout = 90 * time.Second
	maxRetries     = 3
)

// ScrapedEvent is one candidate event as returned by the scraping service.
// Time is the event start in UTC; nil when the scraper could not find one.
type ScrapedEvent struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Time         *time.Time `json:"time"`
	VenueName    string     `json:"venue_name"`
	VenueURL     string     `json:"venue_url,omitempty"`
	VenueAddress string     `json:"venue_address"`
	ImageURL     string     `json:"image_url,omitempty"`
}

// Func is the scrape transport signature the ingestion pipeline consumes,
// so tests can substitute a fake without a network.
type Func func(ctx context.Context, url string, maxEvents int) ([]ScrapedEvent, error)

// Client calls the external scraping service.
type Client struct {
	serviceURL string
	httpClient *http.Client
}

// NewClient creates a client for the scraping service at serviceURL.
func NewClient(serviceURL string) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type scrapeRequest struct {
	URL       string `json:"url"`
	MaxEvents int    `json:"max_events"`
}

type scrapeResponse struct {
	Events []ScrapedEvent `json:"events"`
}

// Scrape posts {url, max_events} to the scraping service and returns the
// candidate events. Transient failures (network errors, 5xx) are retried
// with exponential backoff; a 4xx response fails immediately. Any error
// means "zero events" to the caller, and the pipeline skips the source.
func (c *Client) Scrape(ctx context.Context, url string, maxEvents int) ([]ScrapedEvent, error) {
	body, err := json.Marshal(scrapeRequest{URL: url, MaxEvents: maxEvents})
	if err != nil {
		return nil, fmt.Errorf("encoding scrape request: %w", err)
	}

	var events []ScrapedEvent
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("calling scrape service: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			err := fmt.Errorf("scrape service returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		var decoded scrapeResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("parsing scrape response: %w", err))
		}
		events = decoded.Events
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return events, nil
}
