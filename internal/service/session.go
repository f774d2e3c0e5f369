package service

import (
	"context"
	"sync"

	"recipebook/internal/model"
	"recipebook/internal/repository"

	"github.com/rs/zerolog"
)

// Session shares one CatalogStore between services and serialises
// multi-step mutations so they do not interleave inside one pending batch.
type Session struct {
	store  repository.CatalogStore
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSession wraps store for use by the services.
func NewSession(store repository.CatalogStore, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Store returns the underlying store.
func (s *Session) Store() repository.CatalogStore {
	return s.store
}

// save flushes pending mutations. On failure the pending mutations are
// dropped and a *model.PersistError is returned.
func (s *Session) save(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to save catalog")
		s.discard(ctx)
		return &model.PersistError{Err: err}
	}
	return nil
}

// discard drops pending mutations, logging failures.
func (s *Session) discard(ctx context.Context) {
	if err := s.store.Discard(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to discard pending changes")
	}
}
