// Package catalog provides the climbing route catalog and its storage backends.
package catalog

import (
	"errors"
	"fmt"
)

// Catalog errors.
var (
	// ErrUnknownCategory is returned for a difficulty or style outside the enumerated domain.
	ErrUnknownCategory = errors.New("unknown category")
)

// Difficulty is a coarse route grade. The numeric value is the encoder code.
type Difficulty int

// Difficulty levels.
const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
)

// Difficulties lists every difficulty in code order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

var difficultyNames = [...]string{"Beginner", "Intermediate", "Advanced"}

// Style is a climbing discipline. The numeric value is the encoder code.
type Style int

// Climbing styles.
const (
	Sport Style = iota
	Bouldering
	Trad
)

// Styles lists every style in code order.
var Styles = []Style{Sport, Bouldering, Trad}

var styleNames = [...]string{"Sport", "Bouldering", "Trad"}

// CategoryError reports a value outside an enumerated domain.
type CategoryError struct {
	Field string
	Value string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// Unwrap lets errors.Is match ErrUnknownCategory.
func (e *CategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// ParseDifficulty parses the canonical difficulty name. Matching is case-sensitive.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if s == name {
			return Difficulty(i), nil
		}
	}
	return 0, &CategoryError{Field: "difficulty", Value: s}
}

// Valid reports whether d is one of the enumerated levels.
func (d Difficulty) Valid() bool {
	return d >= Beginner && d <= Advanced
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, &CategoryError{Field: "difficulty", Value: d.String()}
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseStyle parses the canonical style name. Matching is case-sensitive.
func ParseStyle(s string) (Style, error) {
	for i, name := range styleNames {
		if s == name {
			return Style(i), nil
		}
	}
	return 0, &CategoryError{Field: "style", Value: s}
}

// Valid reports whether s is one of the enumerated styles.
func (s Style) Valid() bool {
	return s >= Sport && s <= Trad
}

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &CategoryError{Field: "style", Value: s.String()}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Route is a single catalog entry.
type Route struct {
	ID         int64
	Name       string
	Difficulty Difficulty
	Style      Style
}

// Row is a validated route awaiting insertion. IDs are assigned by the store.
type Row struct {
	Name       string
	Difficulty Difficulty
	Style      Style
}

// Validate rejects a row whose difficulty or style is outside the enumerations.
func (r Row) Validate() error {
	if !r.Difficulty.Valid() {
		return &CategoryError{Field: "difficulty", Value: r.Difficulty.String()}
	}
	if !r.Style.Valid() {
		return &CategoryError{Field: "style", Value: r.Style.String()}
	}
	return nil
}

func validateRows(rows []Row) error {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// scanRoute builds a Route from stored text columns.
func scanRoute(id int64, name, difficulty, style string) (Route, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return Route{}, fmt.Errorf("route %d: %w", id, err)
	}
	s, err := ParseStyle(style)
	if err != nil {
		return Route{}, fmt.Errorf("route %d: %w", id, err)
	}
	return Route{ID: id, Name: name, Difficulty: d, Style: s}, nil
}
