// Package stats summarizes a route catalog for charts and tables.
package stats

import (
	"github.com/cragmatch/cragmatch/internal/catalog"
)

// DefaultMinStyleCount is the size below which a style is folded into OtherLabel.
const DefaultMinStyleCount = 5

// OtherLabel names the bucket for styles below the minimum count.
const OtherLabel = "Other"

// Bucket is one bar or slice of a chart.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Point places one route on the difficulty/style plane.
type Point struct {
	DifficultyCode int    `json:"difficultyCode"`
	StyleCode      int    `json:"styleCode"`
	Name           string `json:"name"`
	Style          string `json:"style"`
}

// Summary bundles every chart series for a catalog.
type Summary struct {
	Total        int      `json:"total"`
	Difficulties []Bucket `json:"difficulties"`
	Styles       []Bucket `json:"styles"`
	Points       []Point  `json:"points"`
}

// DifficultyDistribution counts routes per difficulty. Every level is present, in code order.
func DifficultyDistribution(routes []catalog.Route) []Bucket {
	counts := make(map[catalog.Difficulty]int, len(catalog.Difficulties))
	for _, r := range routes {
		counts[r.Difficulty]++
	}

	buckets := make([]Bucket, 0, len(catalog.Difficulties))
	for _, d := range catalog.Difficulties {
		buckets = append(buckets, Bucket{Label: d.String(), Count: counts[d]})
	}
	return buckets
}

// StyleDistribution counts routes per style. Styles with fewer than minCount
// routes are merged into a trailing OtherLabel bucket; empty styles are omitted.
func StyleDistribution(routes []catalog.Route, minCount int) []Bucket {
	counts := make(map[catalog.Style]int, len(catalog.Styles))
	for _, r := range routes {
		counts[r.Style]++
	}

	var (
		buckets []Bucket
		other   int
	)
	for _, s := range catalog.Styles {
		n := counts[s]
		switch {
		case n == 0:
		case n < minCount:
			other += n
		default:
			buckets = append(buckets, Bucket{Label: s.String(), Count: n})
		}
	}
	if other > 0 {
		buckets = append(buckets, Bucket{Label: OtherLabel, Count: other})
	}
	return buckets
}

// ScatterPoints returns one point per route in catalog order.
func ScatterPoints(routes []catalog.Route) []Point {
	points := make([]Point, 0, len(routes))
	for _, r := range routes {
		points = append(points, Point{
			DifficultyCode: int(r.Difficulty),
			StyleCode:      int(r.Style),
			Name:           r.Name,
			Style:          r.Style.String(),
		})
	}
	return points
}

// Summarize builds every series. minCount <= 0 uses DefaultMinStyleCount.
func Summarize(routes []catalog.Route, minCount int) Summary {
	if minCount <= 0 {
		minCount = DefaultMinStyleCount
	}
	return Summary{
		Total:        len(routes),
		Difficulties: DifficultyDistribution(routes),
		Styles:       StyleDistribution(routes, minCount),
		Points:       ScatterPoints(routes),
	}
}
