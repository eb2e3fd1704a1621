package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homeplate/internal/auth"
	"homeplate/internal/config"
	"homeplate/internal/database"
	"homeplate/internal/importer"
	"homeplate/internal/repository"
	"homeplate/internal/service"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	userFlag := flag.String("user", "", "UUID of the seller account that will own the imported plates")
	concurrency := flag.Int("concurrency", 4, "number of files read at once")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -user <uuid> file.csv.gz...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *userFlag == "" || flag.NArg() == 0 {
		flag.Usage()
		return errors.New("a seller user ID and at least one file are required")
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", *userFlag, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	plateService := service.NewPlateService(
		repository.NewPlateRepository(pool, logger),
		repository.NewSellerRepository(pool, logger),
		logger,
	)

	// S3 is tried first when enabled, local paths are the fallback
	fileLoader := importer.NewFileLoader(logger)
	loader := fileLoader
	if cfg.S3.Enabled {
		s3Loader, err := importer.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
		} else {
			loader = importer.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	}

	im := importer.New(loader, plateService, *concurrency, logger)
	caller := auth.Identity{UserID: userID, Role: auth.RoleSeller}

	result, err := im.Import(ctx, caller, flag.Args()...)
	if result != nil {
		for _, rowErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "skipped %s\n", rowErr.Error())
		}
		fmt.Printf("imported %d plates, %d rows failed\n", result.Imported, result.Failed)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	return nil
}
