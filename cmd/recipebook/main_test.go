package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"recipebook/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args against a SQLite catalog in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("RECIPEBOOK_CONFIG", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "catalog.sqlite"))
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "export"))
	t.Setenv("S3_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	exportRecipesPath, exportDishTypesPath = "", ""
	importRecipesPath, importDishTypesPath = "", ""
	importReplace, importPolicy = false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportThenExport(t *testing.T) {
	dir := t.TempDir()

	dishTypes := filepath.Join(dir, "in_dish_types.json")
	recipes := filepath.Join(dir, "in_recipes.json")
	require.NoError(t, os.WriteFile(dishTypes,
		[]byte(`[{"name":"Супы","id":"7d3f2c4e-1b7a-4c55-9d8e-2f1a6b0c9e11"}]`), 0o644))
	require.NoError(t, os.WriteFile(recipes,
		[]byte(`[{"name":"Борщ","recipeDescription":"Варить","ingredients":["свёкла"],"type":"Супы","id":"0b6c1f0e-5a54-4e39-8c3e-8d4b7e2a1f22"}]`), 0o644))

	out, err := execute(t, dir, "import", "--recipes", recipes, "--dish-types", dishTypes)
	require.NoError(t, err)
	var summary service.ImportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.DishTypes)
	assert.Equal(t, 1, summary.Recipes)

	out, err = execute(t, dir, "import", "--recipes", recipes, "--policy", "skip")
	require.NoError(t, err)
	summary = service.ImportSummary{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 0, summary.Recipes)
	assert.Equal(t, 1, summary.Skipped)

	out, err = execute(t, dir, "export")
	require.NoError(t, err)
	var result service.ExportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Recipes)
	assert.Equal(t, 1, result.DishTypes)

	exported, err := os.ReadFile(filepath.Join(dir, "export", "recipes.json"))
	require.NoError(t, err)
	assert.Contains(t, string(exported), "0b6c1f0e-5a54-4e39-8c3e-8d4b7e2a1f22")
}

func TestImport_InvalidPolicy(t *testing.T) {
	_, err := execute(t, t.TempDir(), "import", "--recipes", "r.json", "--policy", "merge")

	assert.Error(t, err)
}

func TestImport_NothingToImport(t *testing.T) {
	_, err := execute(t, t.TempDir(), "import")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "At least one import file")
}
