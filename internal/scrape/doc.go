// Package scrape provides the client for the external scraping service,
// plus normalization helpers for the payloads it returns: HTML-to-text
// description cleanup and source-URL provider detection.
//
// The scraping service itself (browser automation, per-site parsing) is a
// separate deployment; this package only speaks its POST contract.
package scrape
