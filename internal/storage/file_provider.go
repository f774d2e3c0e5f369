package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"recipebook/internal/model"

	"github.com/rs/zerolog"
)

// fileProvider implements Provider on the local file system.
type fileProvider struct {
	logger zerolog.Logger
}

// NewFileProvider creates a new local file system provider.
func NewFileProvider(logger zerolog.Logger) Provider {
	return &fileProvider{
		logger: logger.With().Str("component", "file-provider").Logger(),
	}
}

// Read returns the contents of the file at path. Paths ending in .gz are decompressed.
func (p *fileProvider) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Debug().Str("file", path).Msg("reading document")

	file, err := os.Open(path)
	if err != nil {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to open document")
		return nil, &model.ReadError{Path: path, Err: err}
	}
	defer file.Close()

	data, err := decodeBody(path, file)
	if err != nil {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to read document")
		return nil, &model.ReadError{Path: path, Err: err}
	}

	p.logger.Info().Str("file", path).Int("bytes", len(data)).Msg("document read")
	return data, nil
}

// Write replaces the file at path with data, creating parent directories as needed.
// Paths ending in .gz are compressed.
func (p *fileProvider) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := encodeBody(path, data)
	if err != nil {
		return &model.WriteError{Path: path, Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			p.logger.Error().Err(err).Str("dir", dir).Msg("failed to create directory")
			return &model.WriteError{Path: path, Err: fmt.Errorf("failed to create directory %s: %w", dir, err)}
		}
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		p.logger.Error().Err(err).Str("file", path).Msg("failed to write document")
		return &model.WriteError{Path: path, Err: err}
	}

	p.logger.Info().Str("file", path).Int("bytes", len(body)).Msg("document written")
	return nil
}
