package service

import (
	"context"
	"fmt"
	"strings"

	"recipebook/internal/model"
	"recipebook/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	session      *Session
	store        repository.CatalogStore
	deletePolicy model.DeletePolicy
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(session *Session, deletePolicy model.DeletePolicy, logger zerolog.Logger) CatalogService {
	if deletePolicy == "" {
		deletePolicy = model.DeleteOrphan
	}
	return &catalogService{
		session:      session,
		store:        session.Store(),
		deletePolicy: deletePolicy,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// ListDishTypes retrieves all dish types sorted by name.
func (s *catalogService) ListDishTypes(ctx context.Context) ([]model.DishType, error) {
	dishTypes, err := s.store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByName})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list dish types")
		return nil, fmt.Errorf("failed to list dish types: %w", err)
	}

	s.logger.Debug().Int("count", len(dishTypes)).Msg("retrieved dish types")
	return dishTypes, nil
}

// DishType retrieves a dish type by ID.
func (s *catalogService) DishType(ctx context.Context, id uuid.UUID) (*model.DishType, error) {
	dishType, err := s.store.DishTypeByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to get dish type")
		return nil, fmt.Errorf("failed to get dish type: %w", err)
	}

	if dishType == nil {
		s.logger.Debug().Str("dish_type_id", id.String()).Msg("dish type not found")
		return nil, model.ErrDishTypeNotFound
	}

	return dishType, nil
}

// ResolveType returns the first dish type named recipe.Type.
func (s *catalogService) ResolveType(ctx context.Context, recipe model.Recipe) (*model.DishType, error) {
	if recipe.Type == "" {
		return nil, nil
	}

	dishTypes, err := s.store.FetchDishTypes(ctx, repository.DishTypeQuery{
		Name: repository.StringPtr(recipe.Type),
		Sort: repository.SortByInsertion,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("type", recipe.Type).Msg("failed to resolve dish type")
		return nil, fmt.Errorf("failed to resolve dish type: %w", err)
	}

	if len(dishTypes) == 0 {
		s.logger.Debug().
			Str("recipe_id", recipe.ID.String()).
			Str("type", recipe.Type).
			Msg("recipe refers to unknown dish type")
		return nil, nil
	}

	return &dishTypes[0], nil
}

// CreateDishType adds a new dish type.
func (s *catalogService) CreateDishType(ctx context.Context, input DishTypeInput) (*model.DishType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	dishType := model.NewDishType(name, input.Image)
	if err := s.store.InsertDishType(ctx, dishType); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to insert dish type")
		s.session.discard(ctx)
		return nil, fmt.Errorf("failed to create dish type: %w", err)
	}

	if err := s.session.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("dish_type_id", dishType.ID.String()).
		Str("name", name).
		Msg("dish type created")

	return &dishType, nil
}

// UpdateDishType renames a dish type and replaces its image.
func (s *catalogService) UpdateDishType(ctx context.Context, id uuid.UUID, input DishTypeInput) (*model.DishType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	existing, err := s.DishType(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = name
	updated.Image = input.Image

	if _, err := s.store.UpdateDishType(ctx, updated); err != nil {
		s.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to update dish type")
		s.session.discard(ctx)
		return nil, fmt.Errorf("failed to update dish type: %w", err)
	}

	if existing.Name != name {
		retyped, err := s.store.RetypeRecipes(ctx, existing.Name, name)
		if err != nil {
			s.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to retype recipes")
			s.session.discard(ctx)
			return nil, fmt.Errorf("failed to rename dish type: %w", err)
		}
		s.logger.Debug().
			Str("from", existing.Name).
			Str("to", name).
			Int64("recipes", retyped).
			Msg("recipes follow dish type rename")
	}

	if err := s.session.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("dish_type_id", id.String()).Str("name", name).Msg("dish type updated")
	return &updated, nil
}

// DeleteDishType removes a dish type and applies the delete policy to its recipes.
func (s *catalogService) DeleteDishType(ctx context.Context, id uuid.UUID) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	existing, err := s.DishType(ctx, id)
	if err != nil {
		return err
	}

	if err := s.applyDeletePolicy(ctx, existing.Name); err != nil {
		s.session.discard(ctx)
		return err
	}

	if _, err := s.store.DeleteDishType(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("dish_type_id", id.String()).Msg("failed to delete dish type")
		s.session.discard(ctx)
		return fmt.Errorf("failed to delete dish type: %w", err)
	}

	if err := s.session.save(ctx); err != nil {
		return err
	}

	s.logger.Info().
		Str("dish_type_id", id.String()).
		Str("policy", string(s.deletePolicy)).
		Msg("dish type deleted")
	return nil
}

func (s *catalogService) applyDeletePolicy(ctx context.Context, name string) error {
	switch s.deletePolicy {
	case model.DeleteBlock:
		recipes, err := s.store.FetchRecipes(ctx, repository.RecipeQuery{Type: repository.StringPtr(name)})
		if err != nil {
			s.logger.Error().Err(err).Str("type", name).Msg("failed to check dish type usage")
			return fmt.Errorf("failed to check dish type usage: %w", err)
		}
		if len(recipes) > 0 {
			s.logger.Warn().Str("type", name).Int("recipes", len(recipes)).Msg("dish type still in use")
			return model.ErrDishTypeInUse
		}
	case model.DeleteNullify:
		if _, err := s.store.RetypeRecipes(ctx, name, ""); err != nil {
			s.logger.Error().Err(err).Str("type", name).Msg("failed to clear recipe types")
			return fmt.Errorf("failed to clear recipe types: %w", err)
		}
	case model.DeleteCascade:
		if _, err := s.store.DeleteRecipesByType(ctx, name); err != nil {
			s.logger.Error().Err(err).Str("type", name).Msg("failed to delete recipes of dish type")
			return fmt.Errorf("failed to delete recipes of dish type: %w", err)
		}
	}
	return nil
}

// ListRecipes retrieves recipes of one type, or all recipes, sorted by name.
func (s *catalogService) ListRecipes(ctx context.Context, typeName string) ([]model.Recipe, error) {
	query := repository.RecipeQuery{Sort: repository.SortByName}
	if typeName != "" {
		query.Type = repository.StringPtr(typeName)
	}

	recipes, err := s.store.FetchRecipes(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Str("type", typeName).Msg("failed to list recipes")
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	s.logger.Debug().Int("count", len(recipes)).Str("type", typeName).Msg("retrieved recipes")
	return recipes, nil
}

// SearchRecipes retrieves recipes matching query sorted by name.
func (s *catalogService) SearchRecipes(ctx context.Context, query string) ([]model.Recipe, error) {
	recipes, err := s.ListRecipes(ctx, "")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return recipes, nil
	}

	matches := make([]model.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if recipeMatches(recipe, needle) {
			matches = append(matches, recipe)
		}
	}

	s.logger.Debug().Str("query", query).Int("count", len(matches)).Msg("searched recipes")
	return matches, nil
}

func recipeMatches(recipe model.Recipe, needle string) bool {
	for _, field := range []string{
		recipe.Name,
		recipe.Description,
		strings.Join(recipe.Ingredients, " "),
		recipe.Type,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Recipe retrieves a recipe by ID.
func (s *catalogService) Recipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	recipe, err := s.store.RecipeByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id.String()).Msg("failed to get recipe")
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if recipe == nil {
		s.logger.Debug().Str("recipe_id", id.String()).Msg("recipe not found")
		return nil, model.ErrRecipeNotFound
	}

	return recipe, nil
}

// CreateRecipe adds a new recipe.
func (s *catalogService) CreateRecipe(ctx context.Context, input RecipeInput) (*model.Recipe, error) {
	input, err := normaliseRecipeInput(input)
	if err != nil {
		return nil, err
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	recipe := model.NewRecipe(input.Name, input.Description, input.Ingredients, input.Type, input.Image)
	if err := s.store.InsertRecipe(ctx, recipe); err != nil {
		s.logger.Error().Err(err).Str("name", recipe.Name).Msg("failed to insert recipe")
		s.session.discard(ctx)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := s.session.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("recipe_id", recipe.ID.String()).
		Str("name", recipe.Name).
		Str("type", recipe.Type).
		Msg("recipe created")

	return &recipe, nil
}

// UpdateRecipe replaces every editable field of a recipe.
func (s *catalogService) UpdateRecipe(ctx context.Context, id uuid.UUID, input RecipeInput) (*model.Recipe, error) {
	input, err := normaliseRecipeInput(input)
	if err != nil {
		return nil, err
	}

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	existing, err := s.Recipe(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Ingredients = input.Ingredients
	updated.Type = input.Type
	updated.Image = input.Image

	if _, err := s.store.UpdateRecipe(ctx, updated); err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id.String()).Msg("failed to update recipe")
		s.session.discard(ctx)
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if err := s.session.save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return &updated, nil
}

// DeleteRecipe removes a recipe.
func (s *catalogService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	deleted, err := s.store.DeleteRecipe(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("recipe_id", id.String()).Msg("failed to delete recipe")
		s.session.discard(ctx)
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if deleted == 0 {
		s.logger.Debug().Str("recipe_id", id.String()).Msg("recipe not found")
		s.session.discard(ctx)
		return model.ErrRecipeNotFound
	}

	if err := s.session.save(ctx); err != nil {
		return err
	}

	s.logger.Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

// normaliseRecipeInput trims text fields, drops blank ingredients and
// checks that name and description are present.
func normaliseRecipeInput(input RecipeInput) (RecipeInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return input, model.ErrInvalidName
	}

	input.Description = strings.TrimSpace(input.Description)
	if input.Description == "" {
		return input, model.ErrInvalidDescription
	}

	input.Type = strings.TrimSpace(input.Type)

	ingredients := make([]string, 0, len(input.Ingredients))
	for _, ingredient := range input.Ingredients {
		if ingredient = strings.TrimSpace(ingredient); ingredient != "" {
			ingredients = append(ingredients, ingredient)
		}
	}
	input.Ingredients = ingredients

	return input, nil
}
