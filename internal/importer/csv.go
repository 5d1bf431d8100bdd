// Package importer loads a route catalog from CSV into a catalog store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cragmatch/cragmatch/internal/catalog"
)

// Columns is the number of fields in every data row: name, difficulty, style.
const Columns = 3

// ErrMalformedRow is returned for a row without exactly three columns.
var ErrMalformedRow = errors.New("malformed row")

// ErrMalformedHeader is returned when the header record cannot be parsed. The import aborts.
var ErrMalformedHeader = errors.New("malformed header")

// RowError describes one rejected input row.
type RowError struct {
	Line   int
	Record []string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseCSV reads name,difficulty,style rows. The first record is a header and is skipped.
// Bad rows are returned as rejects; only reader failures abort.
func ParseCSV(r io.Reader) ([]catalog.Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows    []catalog.Row
		rejects []RowError
		header  = true
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if header {
					return nil, nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
				}
				rejects = append(rejects, RowError{Line: parseErr.StartLine, Record: record, Err: fmt.Errorf("%w: %v", ErrMalformedRow, parseErr.Err)})
				continue
			}
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}

		row, err := parseRecord(record)
		if err != nil {
			rejects = append(rejects, RowError{Line: line, Record: record, Err: err})
			continue
		}
		rows = append(rows, row)
	}

	return rows, rejects, nil
}

func parseRecord(record []string) (catalog.Row, error) {
	if len(record) != Columns {
		return catalog.Row{}, fmt.Errorf("%w: %d columns, want %d", ErrMalformedRow, len(record), Columns)
	}

	name := strings.TrimSpace(record[0])
	difficulty, err := catalog.ParseDifficulty(strings.TrimSpace(record[1]))
	if err != nil {
		return catalog.Row{}, err
	}
	style, err := catalog.ParseStyle(strings.TrimSpace(record[2]))
	if err != nil {
		return catalog.Row{}, err
	}

	return catalog.Row{Name: name, Difficulty: difficulty, Style: style}, nil
}
