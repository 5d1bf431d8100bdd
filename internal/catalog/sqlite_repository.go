package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS routes (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	style      TEXT NOT NULL
)`

// SQLiteRepository stores the catalog in a single SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps an open SQLite handle.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureSchema creates the routes table when it does not exist yet.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create routes table: %w", err)
	}
	return nil
}

// List retrieves every route ordered by ID.
func (r *SQLiteRepository) List(ctx context.Context) ([]Route, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, difficulty, style FROM routes ORDER BY id`)
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

// ReplaceAll deletes all routes and inserts rows in one transaction.
// Without AUTOINCREMENT, SQLite hands out rowids from 1 again once the table is empty.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, rows []Row) (int, error) {
	if err := validateRows(rows); err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM routes`); err != nil {
		return 0, fmt.Errorf("clear routes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO routes (name, difficulty, style) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Name, row.Difficulty.String(), row.Style.String()); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	return len(rows), nil
}

// Ensure SQLiteRepository implements Repository interface.
var _ Repository = (*SQLiteRepository)(nil)
