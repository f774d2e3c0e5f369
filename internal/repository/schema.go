package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSchema creates the catalog tables. Entity IDs are indexed but not
// unique; row_id identifies a physical row.
const PostgresSchema = `
	CREATE TABLE IF NOT EXISTS dish_types (
		row_id BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL,
		name TEXT NOT NULL,
		image BYTEA,
		has_image BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_dish_types_id ON dish_types(id);
	CREATE INDEX IF NOT EXISTS idx_dish_types_name ON dish_types(name);

	CREATE TABLE IF NOT EXISTS recipes (
		row_id BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		ingredients TEXT[] NOT NULL DEFAULT '{}',
		type TEXT NOT NULL,
		image BYTEA,
		has_image BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_recipes_id ON recipes(id);
	CREATE INDEX IF NOT EXISTS idx_recipes_type ON recipes(type);
`

// Migrate creates the catalog schema if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}
	return nil
}

// OrderClause returns the ORDER BY expression for a sort field.
func OrderClause(sort SortField) string {
	if sort == SortByInsertion {
		return "row_id"
	}
	return "name, row_id"
}
