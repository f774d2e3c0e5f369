package service

import (
	"context"

	"github.com/rs/zerolog"
)

// logPresenter reports exported documents through the logger.
type logPresenter struct {
	logger zerolog.Logger
}

// NewLogPresenter creates a Presenter that logs the exported locations.
func NewLogPresenter(logger zerolog.Logger) Presenter {
	return &logPresenter{
		logger: logger.With().Str("component", "presenter").Logger(),
	}
}

func (p *logPresenter) Present(_ context.Context, paths []string) {
	p.logger.Info().Strs("paths", paths).Msg("export ready")
}
