package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"recipebook/internal/codec"
	"recipebook/internal/model"
	"recipebook/internal/storage"

	"github.com/rs/zerolog"
)

// Writes a sample catalog for trying out import.
// "Компот" names a dish type that is not in the catalog.
func main() {
	dir := flag.String("dir", "data/sample", "output directory")
	gz := flag.Bool("gzip", true, "gzip-compress the documents")
	flag.Parse()

	dishTypes := []model.DishType{
		model.NewDishType("Супы", model.NoImage),
		model.NewDishType("Салаты", model.NoImage),
		model.NewDishType("Десерты", model.NewImage([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})),
	}

	recipes := []model.Recipe{
		model.NewRecipe("Борщ", "Свёклу и капусту варить в бульоне", []string{"свёкла", "капуста", "картофель"}, "Супы", model.NoImage),
		model.NewRecipe("Щи", "Квашеную капусту тушить и варить", []string{"капуста", "морковь"}, "Супы", model.NoImage),
		model.NewRecipe("Оливье", "Нарезать кубиками и заправить", []string{"картофель", "горошек", "яйцо"}, "Салаты", model.NoImage),
		model.NewRecipe("Винегрет", "Нарезать и перемешать", []string{"свёкла", "огурец"}, "Салаты", model.NoImage),
		model.NewRecipe("Сырники", "Обжарить с двух сторон", []string{"творог", "мука", "яйцо"}, "Десерты", model.NoImage),
		model.NewRecipe("Компот", "Сварить и остудить", []string{"яблоки", "сахар"}, "Напитки", model.NoImage),
	}

	dishTypesData, err := codec.EncodeDishTypes(dishTypes)
	if err != nil {
		log.Fatalf("Failed to encode dish types: %v", err)
	}
	recipesData, err := codec.EncodeRecipes(recipes)
	if err != nil {
		log.Fatalf("Failed to encode recipes: %v", err)
	}

	ext := ".json"
	if *gz {
		ext += ".gz"
	}

	provider := storage.NewFileProvider(zerolog.New(os.Stderr))
	ctx := context.Background()

	documents := map[string][]byte{
		"dish_types" + ext: dishTypesData,
		"recipes" + ext:    recipesData,
	}
	for name, data := range documents {
		path := filepath.Join(*dir, name)
		if err := provider.Write(ctx, path, data); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Created %s\n", path)
	}

	fmt.Printf("\nSample catalog: %d dish types, %d recipes\n", len(dishTypes), len(recipes))
	fmt.Println("Import with: recipebook import --recipes", filepath.Join(*dir, "recipes"+ext),
		"--dish-types", filepath.Join(*dir, "dish_types"+ext))
}
