package service

import (
	"context"
	"fmt"

	"homeplate/internal/auth"
	"homeplate/internal/model"
	"homeplate/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type bundleService struct {
	bundleRepo repository.BundleRepository
	plateRepo  repository.PlateRepository
	sellerRepo repository.SellerRepository
	logger     zerolog.Logger
}

// NewBundleService creates a new bundle catalog service.
func NewBundleService(
	bundleRepo repository.BundleRepository,
	plateRepo repository.PlateRepository,
	sellerRepo repository.SellerRepository,
	logger zerolog.Logger,
) BundleService {
	return &bundleService{
		bundleRepo: bundleRepo,
		plateRepo:  plateRepo,
		sellerRepo: sellerRepo,
		logger:     logger.With().Str("service", "bundle").Logger(),
	}
}

// CreateBundle inserts a bundle and its allocation rows in one transaction.
// Allocated plates must belong to the seller and be eligible for bundling.
func (s *bundleService) CreateBundle(ctx context.Context, caller auth.Identity, req *model.BundleRequest) (*model.Bundle, error) {
	if req == nil {
		return nil, model.ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err)
	}

	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(req.Plates))
	for i, p := range req.Plates {
		ids[i] = p.PlateID
	}

	plates, err := s.plateRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle plates: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Plate, len(plates))
	for i := range plates {
		byID[plates[i].ID] = &plates[i]
	}

	bundle := req.ToBundle(seller.ID)
	for i := range bundle.Plates {
		plate, ok := byID[bundle.Plates[i].PlateID]
		if !ok {
			return nil, model.ErrPlateNotFound
		}
		if plate.SellerID != seller.ID {
			s.logger.Warn().
				Str("plate_id", plate.ID.String()).
				Str("seller_id", seller.ID.String()).
				Msg("bundle references another seller's plate")
			return nil, model.ErrForbidden
		}
		if !plate.IsBundle {
			return nil, invalidRequest(fmt.Errorf("plate %q is not eligible for bundles", plate.Name))
		}
		bundle.Plates[i].Plate = plate
	}

	maxBundles := bundle.MaxProducible()
	s.logger.Info().
		Str("seller_id", seller.ID.String()).
		Int("plate_count", bundle.PlateCount).
		Int("max_bundles", maxBundles).
		Msg("bundle availability computed")

	tx, err := s.bundleRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.bundleRepo.Create(ctx, tx, bundle); err != nil {
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("bundle_id", bundle.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create bundle: %w", err)
	}

	s.logger.Info().
		Str("bundle_id", bundle.ID.String()).
		Int("allocations", len(bundle.Plates)).
		Msg("bundle created")

	return bundle, nil
}

func (s *bundleService) GetBundles(ctx context.Context, caller auth.Identity) ([]model.Bundle, error) {
	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return nil, err
	}

	bundles, err := s.bundleRepo.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	return bundles, nil
}

func (s *bundleService) GetAvailableBundles(ctx context.Context) ([]model.Bundle, error) {
	bundles, err := s.bundleRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active bundles")
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}

	available := make([]model.Bundle, 0, len(bundles))
	for _, b := range bundles {
		if b.MaxProducible() > 0 {
			available = append(available, b)
		}
	}

	s.logger.Debug().
		Int("active", len(bundles)).
		Int("available", len(available)).
		Msg("retrieved bundles")

	return available, nil
}

func (s *bundleService) GetBundle(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("bundle_id", id.String()).Msg("failed to get bundle")
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	if bundle == nil {
		return nil, model.ErrBundleNotFound
	}
	return bundle, nil
}

// UpdateBundle changes name, description, price or active flag of the caller's bundle.
func (s *bundleService) UpdateBundle(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.BundleUpdateRequest) (*model.Bundle, error) {
	if req == nil {
		return nil, model.ErrInvalidRequest
	}

	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return nil, err
	}

	bundle, err := s.GetBundle(ctx, id)
	if err != nil {
		return nil, err
	}
	if bundle.SellerID != seller.ID {
		return nil, model.ErrForbidden
	}

	if err := req.Apply(bundle); err != nil {
		return nil, invalidRequest(err)
	}

	ok, err := s.bundleRepo.Update(ctx, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to update bundle: %w", err)
	}
	if !ok {
		return nil, model.ErrBundleNotFound
	}

	s.logger.Info().Str("bundle_id", id.String()).Bool("active", bundle.IsActive).Msg("bundle updated")
	return bundle, nil
}

func (s *bundleService) DeleteBundle(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return err
	}

	ok, err := s.bundleRepo.Delete(ctx, id, seller.ID)
	if err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}
	if !ok {
		return model.ErrBundleNotFound
	}

	s.logger.Info().Str("bundle_id", id.String()).Msg("bundle deleted")
	return nil
}
