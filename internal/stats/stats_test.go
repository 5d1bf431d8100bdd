package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/stats"
)

func routesOf(specs ...catalog.Route) []catalog.Route {
	for i := range specs {
		specs[i].ID = int64(i + 1)
	}
	return specs
}

func repeat(n int, d catalog.Difficulty, s catalog.Style) []catalog.Route {
	out := make([]catalog.Route, n)
	for i := range out {
		out[i] = catalog.Route{Name: "r", Difficulty: d, Style: s}
	}
	return out
}

func TestDifficultyDistribution(t *testing.T) {
	routes := routesOf(
		catalog.Route{Difficulty: catalog.Advanced},
		catalog.Route{Difficulty: catalog.Advanced},
		catalog.Route{Difficulty: catalog.Beginner},
	)

	assert.Equal(t, []stats.Bucket{
		{Label: "Beginner", Count: 1},
		{Label: "Intermediate", Count: 0},
		{Label: "Advanced", Count: 2},
	}, stats.DifficultyDistribution(routes))
}

func TestDifficultyDistribution_Empty(t *testing.T) {
	buckets := stats.DifficultyDistribution(nil)
	require.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestStyleDistribution_FoldsSmallStyles(t *testing.T) {
	var routes []catalog.Route
	routes = append(routes, repeat(6, catalog.Beginner, catalog.Sport)...)
	routes = append(routes, repeat(2, catalog.Beginner, catalog.Bouldering)...)
	routes = append(routes, repeat(1, catalog.Advanced, catalog.Trad)...)

	assert.Equal(t, []stats.Bucket{
		{Label: "Sport", Count: 6},
		{Label: stats.OtherLabel, Count: 3},
	}, stats.StyleDistribution(routes, 5))
}

func TestStyleDistribution_NothingFolded(t *testing.T) {
	var routes []catalog.Route
	routes = append(routes, repeat(5, catalog.Beginner, catalog.Trad)...)
	routes = append(routes, repeat(5, catalog.Beginner, catalog.Sport)...)

	assert.Equal(t, []stats.Bucket{
		{Label: "Sport", Count: 5},
		{Label: "Trad", Count: 5},
	}, stats.StyleDistribution(routes, 5))
}

func TestStyleDistribution_Empty(t *testing.T) {
	assert.Empty(t, stats.StyleDistribution(nil, 5))
}

func TestScatterPoints(t *testing.T) {
	routes := routesOf(
		catalog.Route{Name: "Slab", Difficulty: catalog.Beginner, Style: catalog.Sport},
		catalog.Route{Name: "Crack", Difficulty: catalog.Advanced, Style: catalog.Trad},
	)

	assert.Equal(t, []stats.Point{
		{DifficultyCode: 0, StyleCode: 0, Name: "Slab", Style: "Sport"},
		{DifficultyCode: 2, StyleCode: 2, Name: "Crack", Style: "Trad"},
	}, stats.ScatterPoints(routes))
}

func TestSummarize(t *testing.T) {
	routes := routesOf(
		catalog.Route{Name: "Slab", Difficulty: catalog.Beginner, Style: catalog.Sport},
		catalog.Route{Name: "Crack", Difficulty: catalog.Advanced, Style: catalog.Trad},
		catalog.Route{Name: "Arete", Difficulty: catalog.Intermediate, Style: catalog.Bouldering},
	)

	summary := stats.Summarize(routes, 0)
	assert.Equal(t, 3, summary.Total)
	assert.Len(t, summary.Difficulties, 3)
	assert.Equal(t, []stats.Bucket{{Label: stats.OtherLabel, Count: 3}}, summary.Styles)
	assert.Len(t, summary.Points, 3)

	summary = stats.Summarize(routes, 1)
	assert.Len(t, summary.Styles, 3)
}
