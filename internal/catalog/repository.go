package catalog

import "context"

// Repository defines the interface for route catalog persistence.
type Repository interface {
	// List returns every route ordered by ID ascending.
	// A stored difficulty or style outside the enumerated domain fails with ErrUnknownCategory.
	List(ctx context.Context) ([]Route, error)

	// ReplaceAll clears the catalog and inserts rows, returning the number inserted.
	// IDs restart from 1.
	ReplaceAll(ctx context.Context, rows []Row) (int, error)
}
