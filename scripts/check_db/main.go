package main

import (
	"context"
	"fmt"
	"os"

	"recipebook/internal/config"

	"github.com/jackc/pgx/v5"
)

// Checks that the configured PostgreSQL catalog database is reachable.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		fmt.Fprintf(os.Stderr, "DB_DRIVER is %q, nothing to check\n", cfg.Database.Driver)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	var dishTypes, recipes int
	err = conn.QueryRow(ctx,
		"SELECT (SELECT count(*) FROM dish_types), (SELECT count(*) FROM recipes)").Scan(&dishTypes, &recipes)
	if err != nil {
		fmt.Printf("Connected to database %s; catalog schema not migrated yet: %v\n", dbName, err)
		return
	}

	fmt.Printf("Successfully connected to database: %s (%d dish types, %d recipes)\n", dbName, dishTypes, recipes)
}
