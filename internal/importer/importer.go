// Package importer bulk-loads plates from gzipped CSV files on disk or in S3.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"homeplate/internal/auth"
	"homeplate/internal/model"
	"homeplate/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Loader reads one plate file.
type Loader interface {
	// Load reads a gzipped CSV file and returns its parsed rows.
	Load(ctx context.Context, path string) (*Batch, error)
}

// Batch is the parsed content of one file.
type Batch struct {
	Source  string
	Rows    []Row
	Invalid []RowError
}

// Row is a plate request with the CSV line it came from.
type Row struct {
	Line    int
	Request model.PlateRequest
}

// RowError records a row that could not be imported.
type RowError struct {
	Source string
	Line   int
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

// Result summarises an import run.
type Result struct {
	Imported int
	Failed   int
	Errors   []RowError
}

// Importer inserts plates from files through the plate catalog service, so
// imported rows go through the same validation and ownership rules as the API.
type Importer struct {
	loader      Loader
	plates      service.PlateService
	concurrency int
	logger      zerolog.Logger
}

// New creates an importer. concurrency bounds the number of files read at once.
func New(loader Loader, plates service.PlateService, concurrency int, logger zerolog.Logger) *Importer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Importer{
		loader:      loader,
		plates:      plates,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "plate-importer").Logger(),
	}
}

// Import loads every path concurrently and adds each valid row as a plate
// owned by caller's seller profile. Row failures are counted and reported;
// a file that cannot be read or a caller without a seller profile aborts the run.
func (im *Importer) Import(ctx context.Context, caller auth.Identity, paths ...string) (*Result, error) {
	result := &Result{}
	var mu sync.Mutex

	record := func(imported int, failures []RowError) {
		mu.Lock()
		defer mu.Unlock()
		result.Imported += imported
		result.Failed += len(failures)
		result.Errors = append(result.Errors, failures...)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			batch, err := im.loader.Load(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to load plate file %s: %w", path, err)
			}

			imported, failures, err := im.insert(ctx, caller, batch)
			record(imported, failures)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		im.logger.Error().Err(err).Int("imported", result.Imported).Msg("plate import aborted")
		return result, err
	}

	im.logger.Info().
		Int("files", len(paths)).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("plate import finished")

	return result, nil
}

func (im *Importer) insert(ctx context.Context, caller auth.Identity, batch *Batch) (int, []RowError, error) {
	failures := append([]RowError(nil), batch.Invalid...)
	imported := 0

	for _, row := range batch.Rows {
		if err := ctx.Err(); err != nil {
			return imported, failures, err
		}

		req := row.Request
		if _, err := im.plates.Add(ctx, caller, &req); err != nil {
			if errors.Is(err, model.ErrSellerProfileRequired) {
				return imported, failures, err
			}
			im.logger.Warn().Err(err).Str("source", batch.Source).Int("line", row.Line).Msg("plate row rejected")
			failures = append(failures, RowError{Source: batch.Source, Line: row.Line, Err: err})
			continue
		}
		imported++
	}

	im.logger.Info().
		Str("source", batch.Source).
		Int("imported", imported).
		Int("failed", len(failures)).
		Msg("plate file imported")

	return imported, failures, nil
}
