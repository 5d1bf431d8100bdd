// Package recommend turns a catalog into route recommendations for a skill level and style.
package recommend

import (
	"strconv"

	"github.com/cragmatch/cragmatch/internal/catalog"
)

// ErrUnknownCategory is returned when a query or route uses a value outside the enumerated domains.
var ErrUnknownCategory = catalog.ErrUnknownCategory

// Features is an encoded (difficulty code, style code) pair.
type Features [2]int

// Query is a recommendation request in its raw text form.
type Query struct {
	SkillLevel     string
	PreferredStyle string
}

// EncodedRoute is the training view of a route.
type EncodedRoute struct {
	RouteID  int64
	Features Features
}

// EncodeQuery maps a query onto feature codes.
func EncodeQuery(q Query) (Features, error) {
	d, err := catalog.ParseDifficulty(q.SkillLevel)
	if err != nil {
		return Features{}, err
	}
	s, err := catalog.ParseStyle(q.PreferredStyle)
	if err != nil {
		return Features{}, err
	}
	return Features{int(d), int(s)}, nil
}

// EncodeRoute maps a catalog route onto feature codes.
func EncodeRoute(r catalog.Route) (EncodedRoute, error) {
	if !r.Difficulty.Valid() {
		return EncodedRoute{}, &catalog.CategoryError{Field: "difficulty", Value: r.Difficulty.String()}
	}
	if !r.Style.Valid() {
		return EncodedRoute{}, &catalog.CategoryError{Field: "style", Value: r.Style.String()}
	}
	return EncodedRoute{
		RouteID:  r.ID,
		Features: Features{int(r.Difficulty), int(r.Style)},
	}, nil
}

// EncodeRoutes encodes a whole catalog, stopping at the first invalid route.
func EncodeRoutes(routes []catalog.Route) ([]EncodedRoute, error) {
	encoded := make([]EncodedRoute, 0, len(routes))
	for _, r := range routes {
		e, err := EncodeRoute(r)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, e)
	}
	return encoded, nil
}

// DecodeDifficulty is the inverse of the difficulty encoding.
func DecodeDifficulty(code int) (catalog.Difficulty, error) {
	d := catalog.Difficulty(code)
	if !d.Valid() {
		return 0, &catalog.CategoryError{Field: "difficulty", Value: strconv.Itoa(code)}
	}
	return d, nil
}

// DecodeStyle is the inverse of the style encoding.
func DecodeStyle(code int) (catalog.Style, error) {
	s := catalog.Style(code)
	if !s.Valid() {
		return 0, &catalog.CategoryError{Field: "style", Value: strconv.Itoa(code)}
	}
	return s, nil
}
