package repository_test

import (
	"context"
	"testing"
	"time"

	"recipebook/internal/model"
	"recipebook/internal/repository"
	"recipebook/internal/repository/repositorytest"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a migrated connection pool.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, repository.Migrate(ctx, pool))
	return pool
}

// truncate empties the catalog tables between subtests.
func truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE dish_types, recipes RESTART IDENTITY")
	require.NoError(t, err)
}

func TestCatalogRepository_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pool := setupTestDB(t)

	repositorytest.Run(t, func(t *testing.T) repository.CatalogStore {
		truncate(t, pool)
		store := repository.NewCatalogRepository(pool, zerolog.Nop())
		t.Cleanup(func() {
			_ = store.Discard(context.Background())
		})
		return store
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pool := setupTestDB(t)
	assert.NoError(t, repository.Migrate(context.Background(), pool))
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "name, row_id", repository.OrderClause(repository.SortByName))
	assert.Equal(t, "name, row_id", repository.OrderClause(""))
	assert.Equal(t, "row_id", repository.OrderClause(repository.SortByInsertion))
}

// rejectOnCommit installs a deferred constraint trigger that fails the commit
// while a dish type named "reject-on-commit" exists.
const rejectOnCommit = `
	CREATE OR REPLACE FUNCTION reject_on_commit() RETURNS trigger AS $$
	BEGIN
		IF EXISTS (SELECT 1 FROM dish_types WHERE row_id = NEW.row_id) THEN
			RAISE EXCEPTION 'rejected at commit';
		END IF;
		RETURN NULL;
	END
	$$ LANGUAGE plpgsql;

	DROP TRIGGER IF EXISTS reject_on_commit ON dish_types;
	CREATE CONSTRAINT TRIGGER reject_on_commit
		AFTER INSERT ON dish_types
		DEFERRABLE INITIALLY DEFERRED
		FOR EACH ROW
		WHEN (NEW.name = 'reject-on-commit')
		EXECUTE FUNCTION reject_on_commit();
`

func TestCatalogRepository_FailedCommitKeepsPendingChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	pool := setupTestDB(t)
	_, err := pool.Exec(ctx, rejectOnCommit)
	require.NoError(t, err)

	store := repository.NewCatalogRepository(pool, zerolog.Nop())
	t.Cleanup(func() {
		_ = store.Discard(context.Background())
	})

	salad := model.NewDishType("Салат", model.NoImage)
	rejected := model.NewDishType("reject-on-commit", model.NoImage)
	require.NoError(t, store.InsertDishType(ctx, salad))
	require.NoError(t, store.InsertDishType(ctx, rejected))

	require.Error(t, store.Save(ctx))

	got, err := store.DishTypeByID(ctx, salad.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "pending dish type should still be visible")

	deleted, err := store.DeleteDishType(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	require.NoError(t, store.Save(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM dish_types").Scan(&count))
	assert.Equal(t, 1, count)
}
