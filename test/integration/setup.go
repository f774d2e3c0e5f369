package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"recipebook/internal/config"
	"recipebook/internal/database"
	"recipebook/internal/handler"
	"recipebook/internal/model"
	"recipebook/internal/repository"
	"recipebook/internal/router"
	"recipebook/internal/service"
	"recipebook/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Config    config.DatabaseConfig
	Pool      *pgxpool.Pool
}

// SetupTestDB starts a PostgreSQL test container and migrates the catalog schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := repository.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Config:    dbConfig,
		Pool:      pool,
	}
}

// CleanupDB removes all catalog rows.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "TRUNCATE dish_types, recipes RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to clean catalog tables: %v", err)
	}
}

// testServer is an API server over a catalog store, exporting into a temp dir.
type testServer struct {
	handler   http.Handler
	exportDir string
}

// setupTestServer opens a store with cfg and wires the full API over it,
// with transfer documents confined to exportDir.
func setupTestServer(t *testing.T, cfg config.DatabaseConfig, exportDir string) *testServer {
	t.Helper()

	logger := zerolog.Nop()

	store, closeStore, err := database.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("failed to open catalog store: %v", err)
	}
	t.Cleanup(closeStore)

	session := service.NewSession(store, logger)
	catalog := service.NewCatalogService(session, model.DeleteNullify, logger)
	transfer := service.NewTransferService(session, storage.NewFileProvider(logger), service.NewLogPresenter(logger), service.TransferDefaults{
		ExportDir:     exportDir,
		RecipesFile:   "recipes.json.gz",
		DishTypesFile: "dish_types.json.gz",
		MergePolicy:   model.MergeDuplicate,
	}, logger)

	return &testServer{
		handler: router.New(
			handler.NewDishTypeHandler(catalog, logger),
			handler.NewRecipeHandler(catalog, logger),
			handler.NewTransferHandler(transfer, exportDir, logger),
			testAPIKey,
			logger,
		),
		exportDir: exportDir,
	}
}
