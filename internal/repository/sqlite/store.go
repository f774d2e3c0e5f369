// Package sqlite implements the catalog store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"recipebook/internal/model"
	"recipebook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS dish_types (
	row_id INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	image BLOB,
	has_image INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS recipes (
	row_id INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	ingredients TEXT NOT NULL DEFAULT '[]',
	type TEXT NOT NULL,
	image BLOB,
	has_image INTEGER NOT NULL DEFAULT 0
);
`

const indexes = `
CREATE INDEX IF NOT EXISTS idx_dish_types_id ON dish_types(id);
CREATE INDEX IF NOT EXISTS idx_dish_types_name ON dish_types(name);
CREATE INDEX IF NOT EXISTS idx_recipes_id ON recipes(id);
CREATE INDEX IF NOT EXISTS idx_recipes_type ON recipes(type);
`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// statement is a mutation already applied inside the session transaction.
type statement struct {
	what  string
	query string
	args  []any
}

// Store implements repository.CatalogStore using SQLite.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger

	mu sync.Mutex
	tx *sql.Tx
	// pending records the mutations of tx so a failed commit can be replayed.
	pending []statement
	commit  func(*sql.Tx) error
}

var _ repository.CatalogStore = (*Store)(nil)

// Open opens the SQLite database at path, creating parent directories and schema.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// A session holds at most one transaction; a single connection keeps
	// every read on the same view of pending writes.
	db.SetMaxOpenConns(1)
	return db, nil
}

// New creates the schema on db and returns a store over it.
func New(db *sql.DB, logger zerolog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	if _, err := db.Exec(indexes); err != nil {
		return nil, fmt.Errorf("sqlite indexes: %w", err)
	}
	return &Store{
		db:     db,
		logger: logger.With().Str("repository", "catalog").Str("driver", "sqlite").Logger(),
		commit: (*sql.Tx).Commit,
	}, nil
}

// Close discards pending changes and releases the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	s.pending = nil
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) reader() queryer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) writer(ctx context.Context) (*sql.Tx, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	// database/sql rolls a transaction back when its context ends; the
	// session outlives the request that opened it.
	tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("sqlite begin: %w", err)
	}
	s.tx = tx
	return tx, nil
}

// exec runs a mutation inside the session transaction and returns the affected row count.
func (s *Store) exec(ctx context.Context, what, query string, args ...any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.writer(ctx)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msgf("failed to %s", what)
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	s.pending = append(s.pending, statement{what: what, query: query, args: args})
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s rows affected: %w", what, err)
	}
	return n, nil
}

// replay re-applies the pending mutations in a fresh transaction.
func (s *Store) replay(ctx context.Context) error {
	tx, err := s.writer(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range s.pending {
		if _, err := tx.ExecContext(context.WithoutCancel(ctx), stmt.query, stmt.args...); err != nil {
			_ = tx.Rollback()
			s.tx = nil
			return fmt.Errorf("replay %s: %w", stmt.what, err)
		}
	}
	return nil
}

// InsertDishType implements repository.CatalogStore.
func (s *Store) InsertDishType(ctx context.Context, dishType model.DishType) error {
	image, hasImage := imageColumns(dishType.Image)
	_, err := s.exec(ctx, "insert dish type",
		"INSERT INTO dish_types (id, name, image, has_image) VALUES (?, ?, ?, ?)",
		dishType.ID.String(), dishType.Name, image, hasImage)
	return err
}

// UpdateDishType implements repository.CatalogStore.
func (s *Store) UpdateDishType(ctx context.Context, dishType model.DishType) (int64, error) {
	image, hasImage := imageColumns(dishType.Image)
	return s.exec(ctx, "update dish type",
		"UPDATE dish_types SET name = ?, image = ?, has_image = ? WHERE id = ?",
		dishType.Name, image, hasImage, dishType.ID.String())
}

// DeleteDishType implements repository.CatalogStore.
func (s *Store) DeleteDishType(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.exec(ctx, "delete dish type", "DELETE FROM dish_types WHERE id = ?", id.String())
}

// DishTypeByID implements repository.CatalogStore.
func (s *Store) DishTypeByID(ctx context.Context, id uuid.UUID) (*model.DishType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.reader().QueryRowContext(ctx,
		"SELECT id, name, image, has_image FROM dish_types WHERE id = ? ORDER BY row_id LIMIT 1",
		id.String())
	dt, err := scanDishType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to query dish type")
		return nil, fmt.Errorf("dish type %s: %w", id, err)
	}
	return &dt, nil
}

// FetchDishTypes implements repository.CatalogStore.
func (s *Store) FetchDishTypes(ctx context.Context, q repository.DishTypeQuery) ([]model.DishType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.reader().QueryContext(ctx,
		"SELECT id, name, image, has_image FROM dish_types WHERE (? IS NULL OR name = ?) ORDER BY "+repository.OrderClause(q.Sort),
		q.Name, q.Name)
	if err != nil {
		return nil, fmt.Errorf("dish types: %w", err)
	}
	defer rows.Close()

	dishTypes := []model.DishType{}
	for rows.Next() {
		dt, err := scanDishType(rows)
		if err != nil {
			return nil, fmt.Errorf("dish types scan: %w", err)
		}
		dishTypes = append(dishTypes, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dish types iteration: %w", err)
	}
	return dishTypes, nil
}

// InsertRecipe implements repository.CatalogStore.
func (s *Store) InsertRecipe(ctx context.Context, recipe model.Recipe) error {
	ingredients, err := ingredientsColumn(recipe.Ingredients)
	if err != nil {
		return err
	}
	image, hasImage := imageColumns(recipe.Image)
	_, err = s.exec(ctx, "insert recipe",
		"INSERT INTO recipes (id, name, description, ingredients, type, image, has_image) VALUES (?, ?, ?, ?, ?, ?, ?)",
		recipe.ID.String(), recipe.Name, recipe.Description, ingredients, recipe.Type, image, hasImage)
	return err
}

// UpdateRecipe implements repository.CatalogStore.
func (s *Store) UpdateRecipe(ctx context.Context, recipe model.Recipe) (int64, error) {
	ingredients, err := ingredientsColumn(recipe.Ingredients)
	if err != nil {
		return 0, err
	}
	image, hasImage := imageColumns(recipe.Image)
	return s.exec(ctx, "update recipe",
		"UPDATE recipes SET name = ?, description = ?, ingredients = ?, type = ?, image = ?, has_image = ? WHERE id = ?",
		recipe.Name, recipe.Description, ingredients, recipe.Type, image, hasImage, recipe.ID.String())
}

// DeleteRecipe implements repository.CatalogStore.
func (s *Store) DeleteRecipe(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.exec(ctx, "delete recipe", "DELETE FROM recipes WHERE id = ?", id.String())
}

// RecipeByID implements repository.CatalogStore.
func (s *Store) RecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.reader().QueryRowContext(ctx,
		"SELECT id, name, description, ingredients, type, image, has_image FROM recipes WHERE id = ? ORDER BY row_id LIMIT 1",
		id.String())
	recipe, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id.String()).Msg("failed to query recipe")
		return nil, fmt.Errorf("recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// FetchRecipes implements repository.CatalogStore.
func (s *Store) FetchRecipes(ctx context.Context, q repository.RecipeQuery) ([]model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.reader().QueryContext(ctx,
		"SELECT id, name, description, ingredients, type, image, has_image FROM recipes WHERE (? IS NULL OR type = ?) ORDER BY "+repository.OrderClause(q.Sort),
		q.Type, q.Type)
	if err != nil {
		return nil, fmt.Errorf("recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("recipes scan: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recipes iteration: %w", err)
	}
	return recipes, nil
}

// RetypeRecipes implements repository.CatalogStore.
func (s *Store) RetypeRecipes(ctx context.Context, from, to string) (int64, error) {
	return s.exec(ctx, "retype recipes", "UPDATE recipes SET type = ? WHERE type = ?", to, from)
}

// DeleteRecipesByType implements repository.CatalogStore.
func (s *Store) DeleteRecipesByType(ctx context.Context, typeName string) (int64, error) {
	return s.exec(ctx, "delete recipes by type", "DELETE FROM recipes WHERE type = ?", typeName)
}

// Save implements repository.CatalogStore.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.commit(s.tx)
	s.tx = nil
	if err != nil {
		s.logger.Error().Err(err).Int("pending", len(s.pending)).Msg("failed to commit transaction")
		// Pending mutations stay visible until the caller saves again or discards.
		if replayErr := s.replay(ctx); replayErr != nil {
			s.logger.Error().Err(replayErr).Msg("failed to restore pending changes")
			s.pending = nil
		}
		return fmt.Errorf("sqlite commit: %w", err)
	}
	s.pending = nil
	return nil
}

// Discard implements repository.CatalogStore.
func (s *Store) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback()
	s.tx = nil
	s.pending = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("sqlite rollback: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDishType(row rowScanner) (model.DishType, error) {
	var (
		dt       model.DishType
		id       string
		image    []byte
		hasImage bool
	)
	if err := row.Scan(&id, &dt.Name, &image, &hasImage); err != nil {
		return model.DishType{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.DishType{}, fmt.Errorf("dish type id %q: %w", id, err)
	}
	dt.ID = parsed
	dt.Image = imageFromColumns(image, hasImage)
	return dt, nil
}

func scanRecipe(row rowScanner) (model.Recipe, error) {
	var (
		recipe      model.Recipe
		id          string
		ingredients string
		image       []byte
		hasImage    bool
	)
	if err := row.Scan(&id, &recipe.Name, &recipe.Description, &ingredients, &recipe.Type, &image, &hasImage); err != nil {
		return model.Recipe{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("recipe id %q: %w", id, err)
	}
	recipe.ID = parsed
	if err := json.Unmarshal([]byte(ingredients), &recipe.Ingredients); err != nil {
		return model.Recipe{}, fmt.Errorf("recipe %s ingredients: %w", parsed, err)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	recipe.Image = imageFromColumns(image, hasImage)
	return recipe, nil
}

func imageColumns(img model.Image) ([]byte, bool) {
	data, ok := img.Bytes()
	if !ok {
		return nil, false
	}
	if data == nil {
		data = []byte{}
	}
	return data, true
}

func imageFromColumns(data []byte, present bool) model.Image {
	if !present {
		return model.NoImage
	}
	return model.NewImage(data)
}

func ingredientsColumn(ingredients []string) (string, error) {
	if ingredients == nil {
		ingredients = []string{}
	}
	b, err := json.Marshal(ingredients)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}
	return string(b), nil
}
