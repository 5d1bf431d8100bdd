package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS routes (
	id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	name       TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	style      TEXT NOT NULL
)`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the routes table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create routes table: %w", err)
	}
	return nil
}

// List retrieves every route ordered by ID.
func (r *PostgresRepository) List(ctx context.Context) ([]Route, error) {
	query := `
		SELECT id, name, difficulty, style
		FROM routes
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var (
			id                      int64
			name, difficulty, style string
		)
		if err := rows.Scan(&id, &name, &difficulty, &style); err != nil {
			return nil, err
		}

		route, err := scanRoute(id, name, difficulty, style)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}

// ReplaceAll truncates the routes table and bulk-loads rows in one transaction.
// A failure anywhere rolls the catalog back to its previous contents.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, rows []Row) (int, error) {
	if err := validateRows(rows); err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `TRUNCATE routes RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("clear routes: %w", err)
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"routes"},
		[]string{"name", "difficulty", "style"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return []any{rows[i].Name, rows[i].Difficulty.String(), rows[i].Style.String()}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("insert routes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	return int(copied), nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
