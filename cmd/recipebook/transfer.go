package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"recipebook/internal/model"
	"recipebook/internal/service"

	"github.com/spf13/cobra"
)

var (
	exportRecipesPath   string
	exportDishTypesPath string

	importRecipesPath   string
	importDishTypesPath string
	importReplace       bool
	importPolicy        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog to recipe and dish type JSON documents",
	Long: `Write every recipe and dish type to two JSON documents.
Paths ending in .gz are gzip-compressed. Unset paths fall back to the
configured export directory and file names.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load recipe and dish type JSON documents into the catalog",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportRecipesPath, "recipes", "", "Recipes document path (default <export_dir>/<recipes_file>)")
	exportCmd.Flags().StringVar(&exportDishTypesPath, "dish-types", "", "Dish types document path (default <export_dir>/<dish_types_file>)")

	importCmd.Flags().StringVar(&importRecipesPath, "recipes", "", "Recipes document to import")
	importCmd.Flags().StringVar(&importDishTypesPath, "dish-types", "", "Dish types document to import")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Delete the existing catalog before importing")
	importCmd.Flags().StringVar(&importPolicy, "policy", "", "Merge policy for existing IDs: duplicate, skip or overwrite")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.transfer.ExportCatalog(ctx, service.ExportRequest{
		RecipesPath:   exportRecipesPath,
		DishTypesPath: exportDishTypesPath,
	})
	if err != nil {
		return fmt.Errorf("failed to export catalog: %w", err)
	}

	return printJSON(cmd, result)
}

func runImport(cmd *cobra.Command, _ []string) error {
	// An empty policy leaves the configured default in charge.
	var policy model.MergePolicy
	if importPolicy != "" {
		parsed, err := model.ParseMergePolicy(importPolicy)
		if err != nil {
			return err
		}
		policy = parsed
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.transfer.ImportCatalog(ctx, service.ImportRequest{
		RecipesPath:     importRecipesPath,
		DishTypesPath:   importDishTypesPath,
		ReplaceExisting: importReplace,
		Policy:          policy,
	})
	if err != nil {
		return fmt.Errorf("failed to import catalog: %w", err)
	}

	return printJSON(cmd, summary)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
