package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped plate files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based plate loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "plate-loader").Logger(),
	}
}

// Load reads a gzipped plate CSV from the local file system.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Batch, error) {
	l.logger.Info().Str("file", filePath).Msg("loading plate file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open plate file")
		return nil, fmt.Errorf("failed to open plate file %s: %w", filePath, err)
	}
	defer file.Close()

	batch, err := parseGzipCSV(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading plate file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("rows", len(batch.Rows)).
		Int("invalid", len(batch.Invalid)).
		Msg("plate file loaded")

	return batch, nil
}
