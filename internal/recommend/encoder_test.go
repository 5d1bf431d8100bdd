package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/catalog"
	"github.com/cragmatch/cragmatch/internal/recommend"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query recommend.Query
		want  recommend.Features
	}{
		{"beginner sport", recommend.Query{SkillLevel: "Beginner", PreferredStyle: "Sport"}, recommend.Features{0, 0}},
		{"intermediate bouldering", recommend.Query{SkillLevel: "Intermediate", PreferredStyle: "Bouldering"}, recommend.Features{1, 1}},
		{"advanced trad", recommend.Query{SkillLevel: "Advanced", PreferredStyle: "Trad"}, recommend.Features{2, 2}},
		{"advanced sport", recommend.Query{SkillLevel: "Advanced", PreferredStyle: "Sport"}, recommend.Features{2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recommend.EncodeQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeQuery_UnknownCategory(t *testing.T) {
	tests := []struct {
		name  string
		query recommend.Query
	}{
		{"aid style", recommend.Query{SkillLevel: "Beginner", PreferredStyle: "Aid"}},
		{"expert level", recommend.Query{SkillLevel: "Expert", PreferredStyle: "Sport"}},
		{"lowercase", recommend.Query{SkillLevel: "beginner", PreferredStyle: "sport"}},
		{"empty", recommend.Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recommend.EncodeQuery(tt.query)
			assert.ErrorIs(t, err, recommend.ErrUnknownCategory)
		})
	}
}

func TestEncodeRoute(t *testing.T) {
	got, err := recommend.EncodeRoute(catalog.Route{ID: 7, Name: "Arete", Difficulty: catalog.Intermediate, Style: catalog.Bouldering})
	require.NoError(t, err)
	assert.Equal(t, recommend.EncodedRoute{RouteID: 7, Features: recommend.Features{1, 1}}, got)

	_, err = recommend.EncodeRoute(catalog.Route{ID: 8, Difficulty: catalog.Difficulty(9)})
	assert.ErrorIs(t, err, recommend.ErrUnknownCategory)

	_, err = recommend.EncodeRoute(catalog.Route{ID: 9, Style: catalog.Style(-1)})
	assert.ErrorIs(t, err, recommend.ErrUnknownCategory)
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, d := range catalog.Difficulties {
		decoded, err := recommend.DecodeDifficulty(int(d))
		require.NoError(t, err)
		assert.Equal(t, d, decoded)
	}
	for _, s := range catalog.Styles {
		decoded, err := recommend.DecodeStyle(int(s))
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}

	for code := 0; code < 3; code++ {
		d, err := recommend.DecodeDifficulty(code)
		require.NoError(t, err)
		s, err := recommend.DecodeStyle(code)
		require.NoError(t, err)

		features, err := recommend.EncodeQuery(recommend.Query{SkillLevel: d.String(), PreferredStyle: s.String()})
		require.NoError(t, err)
		assert.Equal(t, recommend.Features{code, code}, features)
	}
}

func TestDecode_OutOfRange(t *testing.T) {
	for _, code := range []int{-1, 3, 100} {
		_, err := recommend.DecodeDifficulty(code)
		assert.ErrorIs(t, err, recommend.ErrUnknownCategory)
		_, err = recommend.DecodeStyle(code)
		assert.ErrorIs(t, err, recommend.ErrUnknownCategory)
	}
}
