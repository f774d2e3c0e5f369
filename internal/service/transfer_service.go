package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"recipebook/internal/codec"
	"recipebook/internal/model"
	"recipebook/internal/repository"
	"recipebook/internal/storage"

	"github.com/rs/zerolog"
)

const (
	stateIdle int32 = iota
	stateExporting
	stateImporting
)

// TransferDefaults configures export destinations and the default merge policy.
type TransferDefaults struct {
	ExportDir     string
	RecipesFile   string
	DishTypesFile string
	MergePolicy   model.MergePolicy
}

// transferService implements TransferService.
type transferService struct {
	session   *Session
	store     repository.CatalogStore
	provider  storage.Provider
	presenter Presenter
	defaults  TransferDefaults
	state     atomic.Int32
	logger    zerolog.Logger
}

// NewTransferService creates a new import/export service. presenter may be nil.
func NewTransferService(
	session *Session,
	provider storage.Provider,
	presenter Presenter,
	defaults TransferDefaults,
	logger zerolog.Logger,
) TransferService {
	if defaults.MergePolicy == "" {
		defaults.MergePolicy = model.MergeDuplicate
	}
	return &transferService{
		session:   session,
		store:     session.Store(),
		provider:  provider,
		presenter: presenter,
		defaults:  defaults,
		logger:    logger.With().Str("service", "transfer").Logger(),
	}
}

// acquire moves the service from idle to state, failing with ErrBusy when
// another operation is running.
func (s *transferService) acquire(state int32) error {
	if !s.state.CompareAndSwap(stateIdle, state) {
		s.logger.Warn().Int32("requested", state).Int32("active", s.state.Load()).Msg("transfer already in progress")
		return model.ErrBusy
	}
	return nil
}

func (s *transferService) release() {
	s.state.Store(stateIdle)
}

// ExportCatalog writes recipes then dish types. The documents are written
// independently: when the second write fails the first is left in place.
func (s *transferService) ExportCatalog(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	recipesPath := req.RecipesPath
	if recipesPath == "" {
		recipesPath = filepath.Join(s.defaults.ExportDir, s.defaults.RecipesFile)
	}
	dishTypesPath := req.DishTypesPath
	if dishTypesPath == "" {
		dishTypesPath = filepath.Join(s.defaults.ExportDir, s.defaults.DishTypesFile)
	}
	if filepath.Clean(recipesPath) == filepath.Clean(dishTypesPath) {
		return nil, model.ErrDuplicateExportPath
	}

	if err := s.acquire(stateExporting); err != nil {
		return nil, err
	}
	defer s.release()

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	s.logger.Info().
		Str("recipes_path", recipesPath).
		Str("dish_types_path", dishTypesPath).
		Msg("exporting catalog")

	recipes, err := s.store.FetchRecipes(ctx, repository.RecipeQuery{Sort: repository.SortByName})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch recipes for export")
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	dishTypes, err := s.store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByName})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch dish types for export")
		return nil, fmt.Errorf("failed to fetch dish types: %w", err)
	}

	recipesDoc, err := codec.EncodeRecipes(recipes)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode recipes")
		return nil, fmt.Errorf("failed to encode recipes: %w", err)
	}
	dishTypesDoc, err := codec.EncodeDishTypes(dishTypes)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode dish types")
		return nil, fmt.Errorf("failed to encode dish types: %w", err)
	}

	if err := ctx.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("export cancelled")
		return nil, err
	}
	if err := s.provider.Write(ctx, recipesPath, recipesDoc); err != nil {
		s.logger.Error().Err(err).Str("path", recipesPath).Msg("failed to write recipes")
		return nil, err
	}

	written := []string{recipesPath}
	if err := ctx.Err(); err != nil {
		s.logger.Warn().Err(err).Strs("written", written).Msg("export cancelled after partial write")
		return nil, &model.PartialExportError{Written: written, Err: err}
	}
	if err := s.provider.Write(ctx, dishTypesPath, dishTypesDoc); err != nil {
		s.logger.Error().Err(err).Str("path", dishTypesPath).Strs("written", written).Msg("failed to write dish types")
		return nil, &model.PartialExportError{Written: written, Err: err}
	}
	written = append(written, dishTypesPath)

	s.logger.Info().
		Int("recipes", len(recipes)).
		Int("dish_types", len(dishTypes)).
		Msg("catalog exported")

	if s.presenter != nil {
		s.presenter.Present(ctx, written)
	}

	return &ExportResult{
		Paths:     written,
		Recipes:   len(recipes),
		DishTypes: len(dishTypes),
	}, nil
}

// ImportCatalog reads dish types then recipes and inserts them under the merge
// policy. A read, decode or insert failure drops every pending insertion; a
// failed final save leaves them pending.
func (s *transferService) ImportCatalog(ctx context.Context, req ImportRequest) (*ImportSummary, error) {
	if req.RecipesPath == "" && req.DishTypesPath == "" {
		return nil, model.ErrNothingToImport
	}

	policy := req.Policy
	if policy == "" {
		policy = s.defaults.MergePolicy
	}
	if _, err := model.ParseMergePolicy(string(policy)); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidMergePolicy, err.Error())
	}

	if err := s.acquire(stateImporting); err != nil {
		return nil, err
	}
	defer s.release()

	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	s.logger.Info().
		Str("recipes_path", req.RecipesPath).
		Str("dish_types_path", req.DishTypesPath).
		Bool("replace_existing", req.ReplaceExisting).
		Str("policy", string(policy)).
		Msg("importing catalog")

	if req.ReplaceExisting {
		if err := s.deleteAll(ctx); err != nil {
			return nil, err
		}
	}

	summary := &ImportSummary{}

	if req.DishTypesPath != "" {
		if err := s.importDishTypes(ctx, req.DishTypesPath, policy, summary); err != nil {
			s.session.discard(ctx)
			return nil, err
		}
	}

	if req.RecipesPath != "" {
		if err := s.importRecipes(ctx, req.RecipesPath, policy, summary); err != nil {
			s.session.discard(ctx)
			return nil, err
		}
	}

	if err := s.store.Save(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to save imported catalog")
		return nil, &model.PersistError{Err: err}
	}

	s.logger.Info().
		Int("dish_types", summary.DishTypes).
		Int("recipes", summary.Recipes).
		Int("skipped", summary.Skipped).
		Int("overwritten", summary.Overwritten).
		Msg("catalog imported")

	return summary, nil
}

// deleteAll removes every dish type and recipe and saves the deletions.
func (s *transferService) deleteAll(ctx context.Context) error {
	dishTypes, err := s.store.FetchDishTypes(ctx, repository.DishTypeQuery{Sort: repository.SortByInsertion})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch dish types for replacement")
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	for _, dishType := range dishTypes {
		if _, err := s.store.DeleteDishType(ctx, dishType.ID); err != nil {
			s.logger.Error().Err(err).Str("dish_type_id", dishType.ID.String()).Msg("failed to delete dish type")
			s.session.discard(ctx)
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	}

	recipes, err := s.store.FetchRecipes(ctx, repository.RecipeQuery{Sort: repository.SortByInsertion})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch recipes for replacement")
		s.session.discard(ctx)
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	for _, recipe := range recipes {
		if _, err := s.store.DeleteRecipe(ctx, recipe.ID); err != nil {
			s.logger.Error().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to delete recipe")
			s.session.discard(ctx)
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	}

	if err := s.session.save(ctx); err != nil {
		return err
	}

	s.logger.Info().
		Int("dish_types", len(dishTypes)).
		Int("recipes", len(recipes)).
		Msg("existing catalog removed")
	return nil
}

func (s *transferService) read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("import cancelled")
		return nil, err
	}
	data, err := s.provider.Read(ctx, path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to read import document")
		return nil, err
	}
	return data, nil
}

func (s *transferService) importDishTypes(ctx context.Context, path string, policy model.MergePolicy, summary *ImportSummary) error {
	data, err := s.read(ctx, path)
	if err != nil {
		return err
	}

	dishTypes, err := codec.DecodeDishTypes(data)
	if err != nil {
		err = codec.WithPath(err, path)
		s.logger.Error().Err(err).Msg("failed to decode dish types")
		return err
	}

	for _, dishType := range dishTypes {
		outcome, err := s.mergeDishType(ctx, dishType, policy)
		if err != nil {
			s.logger.Error().Err(err).Str("dish_type_id", dishType.ID.String()).Msg("failed to import dish type")
			return fmt.Errorf("failed to import dish type %s: %w", dishType.ID, err)
		}
		summary.record(outcome, &summary.DishTypes)
	}
	return nil
}

func (s *transferService) importRecipes(ctx context.Context, path string, policy model.MergePolicy, summary *ImportSummary) error {
	data, err := s.read(ctx, path)
	if err != nil {
		return err
	}

	recipes, err := codec.DecodeRecipes(data)
	if err != nil {
		err = codec.WithPath(err, path)
		s.logger.Error().Err(err).Msg("failed to decode recipes")
		return err
	}

	for _, recipe := range recipes {
		outcome, err := s.mergeRecipe(ctx, recipe, policy)
		if err != nil {
			s.logger.Error().Err(err).Str("recipe_id", recipe.ID.String()).Msg("failed to import recipe")
			return fmt.Errorf("failed to import recipe %s: %w", recipe.ID, err)
		}
		summary.record(outcome, &summary.Recipes)
	}
	return nil
}

type mergeOutcome int

const (
	outcomeInserted mergeOutcome = iota
	outcomeSkipped
	outcomeOverwritten
)

func (summary *ImportSummary) record(outcome mergeOutcome, applied *int) {
	switch outcome {
	case outcomeSkipped:
		summary.Skipped++
	case outcomeOverwritten:
		summary.Overwritten++
		*applied++
	default:
		*applied++
	}
}

func (s *transferService) mergeDishType(ctx context.Context, dishType model.DishType, policy model.MergePolicy) (mergeOutcome, error) {
	switch policy {
	case model.MergeSkip:
		existing, err := s.store.DishTypeByID(ctx, dishType.ID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return outcomeSkipped, nil
		}
	case model.MergeOverwrite:
		updated, err := s.store.UpdateDishType(ctx, dishType)
		if err != nil {
			return 0, err
		}
		if updated > 0 {
			return outcomeOverwritten, nil
		}
	}
	return outcomeInserted, s.store.InsertDishType(ctx, dishType)
}

func (s *transferService) mergeRecipe(ctx context.Context, recipe model.Recipe, policy model.MergePolicy) (mergeOutcome, error) {
	switch policy {
	case model.MergeSkip:
		existing, err := s.store.RecipeByID(ctx, recipe.ID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return outcomeSkipped, nil
		}
	case model.MergeOverwrite:
		updated, err := s.store.UpdateRecipe(ctx, recipe)
		if err != nil {
			return 0, err
		}
		if updated > 0 {
			return outcomeOverwritten, nil
		}
	}
	return outcomeInserted, s.store.InsertRecipe(ctx, recipe)
}
