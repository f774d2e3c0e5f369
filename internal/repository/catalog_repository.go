package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"recipebook/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// catalogRepository implements CatalogStore using PostgreSQL.
// Pending mutations live in a single transaction opened by the first write.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger

	mu sync.Mutex
	tx pgx.Tx
	// pending records the mutations of tx so a failed commit can be replayed.
	pending []pendingExec
}

// pendingExec is a mutation already applied inside the session transaction.
type pendingExec struct {
	query string
	args  []any
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog store.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogStore {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Str("driver", "postgres").Logger(),
	}
}

// reader returns the open transaction, or the pool when nothing is pending.
func (r *catalogRepository) reader() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// writer returns the session transaction, starting it if needed.
func (r *catalogRepository) writer(ctx context.Context) (pgx.Tx, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	r.tx = tx
	return tx, nil
}

// exec runs a mutation on tx and records it for replay.
func (r *catalogRepository) exec(ctx context.Context, tx pgx.Tx, query string, args ...any) (pgconn.CommandTag, error) {
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return tag, err
	}
	r.pending = append(r.pending, pendingExec{query: query, args: args})
	return tag, nil
}

// replay re-applies the pending mutations in a fresh transaction.
func (r *catalogRepository) replay(ctx context.Context) error {
	tx, err := r.writer(ctx)
	if err != nil {
		return err
	}
	for _, p := range r.pending {
		if _, err := tx.Exec(ctx, p.query, p.args...); err != nil {
			_ = tx.Rollback(ctx)
			r.tx = nil
			return fmt.Errorf("failed to replay pending changes: %w", err)
		}
	}
	return nil
}

// InsertDishType adds a dish type as a new row.
func (r *catalogRepository) InsertDishType(ctx context.Context, dishType model.DishType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dish_types (id, name, image, has_image)
		VALUES ($1, $2, $3, $4)
	`

	image, hasImage := imageColumns(dishType.Image)
	if _, err := r.exec(ctx, tx, query, dishType.ID, dishType.Name, image, hasImage); err != nil {
		r.logger.Error().Err(err).Str("dish_type_id", dishType.ID.String()).Msg("failed to insert dish type")
		return fmt.Errorf("failed to insert dish type: %w", err)
	}

	return nil
}

// UpdateDishType overwrites name and image of rows matching dishType.ID.
func (r *catalogRepository) UpdateDishType(ctx context.Context, dishType model.DishType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE dish_types
		SET name = $2, image = $3, has_image = $4
		WHERE id = $1
	`

	image, hasImage := imageColumns(dishType.Image)
	tag, err := r.exec(ctx, tx, query, dishType.ID, dishType.Name, image, hasImage)
	if err != nil {
		r.logger.Error().Err(err).Str("dish_type_id", dishType.ID.String()).Msg("failed to update dish type")
		return 0, fmt.Errorf("failed to update dish type: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteDishType removes rows with the given ID.
func (r *catalogRepository) DeleteDishType(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "DELETE FROM dish_types WHERE id = $1", id, "dish type")
}

// DishTypeByID returns the first dish type with the given ID.
func (r *catalogRepository) DishTypeByID(ctx context.Context, id uuid.UUID) (*model.DishType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT id, name, image, has_image
		FROM dish_types
		WHERE id = $1
		ORDER BY row_id
		LIMIT 1
	`

	dt, err := scanDishType(r.reader().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("dish_type_id", id.String()).Msg("dish type not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to query dish type")
		return nil, fmt.Errorf("failed to query dish type: %w", err)
	}

	return &dt, nil
}

// FetchDishTypes returns dish types matching the query.
func (r *catalogRepository) FetchDishTypes(ctx context.Context, q DishTypeQuery) ([]model.DishType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT id, name, image, has_image
		FROM dish_types
		WHERE ($1::text IS NULL OR name = $1)
		ORDER BY ` + OrderClause(q.Sort)

	rows, err := r.reader().Query(ctx, query, q.Name)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query dish types")
		return nil, fmt.Errorf("failed to query dish types: %w", err)
	}
	defer rows.Close()

	dishTypes := []model.DishType{}
	for rows.Next() {
		dt, err := scanDishType(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan dish type row")
			return nil, fmt.Errorf("failed to scan dish type: %w", err)
		}
		dishTypes = append(dishTypes, dt)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating dish type rows")
		return nil, fmt.Errorf("error iterating dish types: %w", err)
	}

	return dishTypes, nil
}

// InsertRecipe adds a recipe as a new row.
func (r *catalogRepository) InsertRecipe(ctx context.Context, recipe model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recipes (id, name, description, ingredients, type, image, has_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	image, hasImage := imageColumns(recipe.Image)
	_, err = r.exec(ctx, tx, query,
		recipe.ID, recipe.Name, recipe.Description, ingredientsColumn(recipe.Ingredients),
		recipe.Type, image, hasImage,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to insert recipe")
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	return nil
}

// UpdateRecipe overwrites every field of rows matching recipe.ID.
func (r *catalogRepository) UpdateRecipe(ctx context.Context, recipe model.Recipe) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE recipes
		SET name = $2, description = $3, ingredients = $4, type = $5, image = $6, has_image = $7
		WHERE id = $1
	`

	image, hasImage := imageColumns(recipe.Image)
	tag, err := r.exec(ctx, tx, query,
		recipe.ID, recipe.Name, recipe.Description, ingredientsColumn(recipe.Ingredients),
		recipe.Type, image, hasImage,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to update recipe")
		return 0, fmt.Errorf("failed to update recipe: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteRecipe removes rows with the given ID.
func (r *catalogRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "DELETE FROM recipes WHERE id = $1", id, "recipe")
}

// RecipeByID returns the first recipe with the given ID.
func (r *catalogRepository) RecipeByID(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT id, name, description, ingredients, type, image, has_image
		FROM recipes
		WHERE id = $1
		ORDER BY row_id
		LIMIT 1
	`

	recipe, err := scanRecipe(r.reader().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("recipe_id", id.String()).Msg("recipe not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("recipe_id", id.String()).Msg("failed to query recipe")
		return nil, fmt.Errorf("failed to query recipe: %w", err)
	}

	return &recipe, nil
}

// FetchRecipes returns recipes matching the query.
func (r *catalogRepository) FetchRecipes(ctx context.Context, q RecipeQuery) ([]model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		SELECT id, name, description, ingredients, type, image, has_image
		FROM recipes
		WHERE ($1::text IS NULL OR type = $1)
		ORDER BY ` + OrderClause(q.Sort)

	rows, err := r.reader().Query(ctx, query, q.Type)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recipes")
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan recipe row")
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating recipe rows")
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// RetypeRecipes changes the type of every recipe whose type equals from.
func (r *catalogRepository) RetypeRecipes(ctx context.Context, from, to string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := r.exec(ctx, tx, "UPDATE recipes SET type = $2 WHERE type = $1", from, to)
	if err != nil {
		r.logger.Error().Err(err).Str("from", from).Str("to", to).Msg("failed to retype recipes")
		return 0, fmt.Errorf("failed to retype recipes: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteRecipesByType removes every recipe whose type equals typeName.
func (r *catalogRepository) DeleteRecipesByType(ctx context.Context, typeName string) (int64, error) {
	return r.deleteWhere(ctx, "DELETE FROM recipes WHERE type = $1", typeName, "recipes by type")
}

func (r *catalogRepository) deleteWhere(ctx context.Context, query string, arg any, what string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.writer(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := r.exec(ctx, tx, query, arg)
	if err != nil {
		r.logger.Error().Err(err).Interface("key", arg).Msgf("failed to delete %s", what)
		return 0, fmt.Errorf("failed to delete %s: %w", what, err)
	}

	return tag.RowsAffected(), nil
}

// Save commits the pending transaction, if any.
func (r *catalogRepository) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tx == nil {
		return nil
	}

	if err := r.tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int("pending", len(r.pending)).Msg("failed to commit transaction")
		// The failed transaction is gone; pending mutations stay visible in a
		// new one until the caller saves again or discards.
		r.tx = nil
		if replayErr := r.replay(ctx); replayErr != nil {
			r.logger.Error().Err(replayErr).Msg("failed to restore pending changes")
			r.pending = nil
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.tx = nil
	r.pending = nil

	r.logger.Debug().Msg("catalog changes saved")
	return nil
}

// Discard rolls back the pending transaction, if any.
func (r *catalogRepository) Discard(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tx == nil {
		return nil
	}

	err := r.tx.Rollback(ctx)
	r.tx = nil
	r.pending = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.Error().Err(err).Msg("failed to rollback transaction")
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	r.logger.Debug().Msg("catalog changes discarded")
	return nil
}

func scanDishType(row pgx.Row) (model.DishType, error) {
	var (
		dt       model.DishType
		image    []byte
		hasImage bool
	)
	if err := row.Scan(&dt.ID, &dt.Name, &image, &hasImage); err != nil {
		return model.DishType{}, err
	}
	dt.Image = imageFromColumns(image, hasImage)
	return dt, nil
}

func scanRecipe(row pgx.Row) (model.Recipe, error) {
	var (
		recipe   model.Recipe
		image    []byte
		hasImage bool
	)
	err := row.Scan(
		&recipe.ID, &recipe.Name, &recipe.Description, &recipe.Ingredients,
		&recipe.Type, &image, &hasImage,
	)
	if err != nil {
		return model.Recipe{}, err
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	recipe.Image = imageFromColumns(image, hasImage)
	return recipe, nil
}

// imageColumns splits an image into its blob and presence flag columns.
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

func ingredientsColumn(ingredients []string) []string {
	if ingredients == nil {
		return []string{}
	}
	return ingredients
}
