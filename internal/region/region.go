// Package region classifies events into fixed geographic buckets based on
// substring matches against per-region gazetteers of city and area names.
package region

import (
	"strings"

	"github.com/utahdevs/utah-dev-events/internal/event"
)

// Region is one of the five fixed geographic buckets.
type Region string

const (
	SaltLakeCounty Region = "Salt Lake County"
	UtahCounty     Region = "Utah County"
	NorthernUtah   Region = "Northern Utah"
	SouthernUtah   Region = "Southern Utah"
	Unknown        Region = "Unknown"
)

// Parse maps a query-parameter region name to a Region. Matching is
// case-insensitive and ignores spaces so "saltlakecounty" works too.
func Parse(s string) (Region, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, r := range []Region{SaltLakeCounty, UtahCounty, NorthernUtah, SouthernUtah, Unknown} {
		if key == strings.ToLower(strings.ReplaceAll(string(r), " ", "")) {
			return r, true
		}
	}
	return Unknown, false
}

// Gazetteer pairs a region with its place-name terms. Classifier checks
// gazetteers in slice order: the first region with a matching term wins.
type Gazetteer struct {
	Region Region
	Terms  []string
}

// Classifier maps free-text location fields to a Region. It is a pure
// function of its gazetteers, which are fixed at construction so tests can
// inject alternates.
type Classifier struct {
	gazetteers []Gazetteer
}

// New creates a classifier with the given gazetteers in priority order.
func New(gazetteers []Gazetteer) *Classifier {
	return &Classifier{gazetteers: gazetteers}
}

// Default returns the production classifier covering the served geography.
// Priority order: Salt Lake County, Utah County, Northern Utah, Southern Utah.
func Default() *Classifier {
	return &Classifier{gazetteers: []Gazetteer{
		{Region: SaltLakeCounty, Terms: []string{
			"salt lake", "slc", "murray", "sandy", "draper", "west valley",
			"south jordan", "west jordan", "millcreek", "midvale", "holladay",
			"cottonwood heights", "taylorsville", "kearns", "magna",
			"herriman", "riverton", "bluffdale", "sugar house", "sugarhouse",
		}},
		{Region: UtahCounty, Terms: []string{
			"provo", "orem", "lehi", "american fork", "pleasant grove",
			"spanish fork", "springville", "eagle mountain",
			"saratoga springs", "payson", "lindon", "vineyard", "mapleton",
			"alpine", "byu", "uvu", "silicon slopes",
		}},
		{Region: NorthernUtah, Terms: []string{
			"ogden", "logan", "layton", "bountiful", "kaysville",
			"farmington", "clearfield", "roy", "syracuse", "brigham city",
			"tremonton", "centerville", "smithfield", "richmond", "usu",
		}},
		{Region: SouthernUtah, Terms: []string{
			"st. george", "st george", "saint george", "cedar city", "moab",
			"kanab", "hurricane", "ivins", "springdale", "richfield",
			"washington city", "price", "ephraim",
		}},
	}}
}

// Classify concatenates the event's location fields into one lowercase string
// and tests substring membership against each gazetteer in priority order.
// First match wins. An empty concatenation or no match yields Unknown.
//
// Substring matching is a deliberate heuristic: a city name embedded in
// another word, or a city shared with a different state, can misclassify.
func (c *Classifier) Classify(evt *event.Event) Region {
	text := evt.LocationText()
	if text == "" {
		return Unknown
	}
	for _, gz := range c.gazetteers {
		for _, term := range gz.Terms {
			if strings.Contains(text, term) {
				return gz.Region
			}
		}
	}
	return Unknown
}
