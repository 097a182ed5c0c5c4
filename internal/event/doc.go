// Package event provides the core Event and Group records shared by the
// ingestion pipeline, the filter engine and the feed renderers, together
// with the Mountain-time date and time-of-day helpers they all rely on.
//
// Dates are stored as ISO "2006-01-02" strings and times of day as "15:04"
// strings, both in America/Denver local time. Both formats compare correctly
// as plain strings, which the filter engine and feed sorting depend on.
package event
