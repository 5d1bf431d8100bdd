package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and local development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes []Route
}

// NewInMemoryRepository creates a new in-memory catalog seeded with routes.
func NewInMemoryRepository(routes ...Route) *InMemoryRepository {
	cpy := make([]Route, len(routes))
	copy(cpy, routes)
	slices.SortStableFunc(cpy, func(a, b Route) int { return cmp.Compare(a.ID, b.ID) })
	return &InMemoryRepository{routes: cpy}
}

// List returns a copy of the stored routes.
func (r *InMemoryRepository) List(_ context.Context) ([]Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out, nil
}

// ReplaceAll swaps the catalog contents for rows.
func (r *InMemoryRepository) ReplaceAll(_ context.Context, rows []Row) (int, error) {
	if err := validateRows(rows); err != nil {
		return 0, err
	}
	routes := make([]Route, 0, len(rows))
	for i, row := range rows {
		routes = append(routes, Route{
			ID:         int64(i + 1),
			Name:       row.Name,
			Difficulty: row.Difficulty,
			Style:      row.Style,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = routes
	return len(routes), nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
