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

// plateService implements PlateService.
type plateService struct {
	plateRepo  repository.PlateRepository
	sellerRepo repository.SellerRepository
	logger     zerolog.Logger
}

// NewPlateService creates a new plate catalog service.
func NewPlateService(
	plateRepo repository.PlateRepository,
	sellerRepo repository.SellerRepository,
	logger zerolog.Logger,
) PlateService {
	return &plateService{
		plateRepo:  plateRepo,
		sellerRepo: sellerRepo,
		logger:     logger.With().Str("service", "plate").Logger(),
	}
}

// Add creates a plate owned by the caller's seller profile.
func (s *plateService) Add(ctx context.Context, caller auth.Identity, req *model.PlateRequest) (*model.Plate, error) {
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

	plate := req.ToPlate(seller.ID)
	if err := s.plateRepo.Create(ctx, plate); err != nil {
		s.logger.Error().Err(err).Str("seller_id", seller.ID.String()).Msg("failed to add plate")
		return nil, fmt.Errorf("failed to add plate: %w", err)
	}

	s.logger.Info().
		Str("plate_id", plate.ID.String()).
		Str("seller_id", seller.ID.String()).
		Int("quantity", plate.Quantity).
		Msg("plate added")

	return plate, nil
}

// Update replaces a plate's fields. Only the owning seller matches.
func (s *plateService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.PlateRequest) (*model.Plate, error) {
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

	plate := req.ToPlate(seller.ID)
	plate.ID = id

	ok, err := s.plateRepo.Update(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("failed to update plate: %w", err)
	}
	if !ok {
		return nil, model.ErrPlateNotFound
	}

	s.logger.Info().Str("plate_id", id.String()).Msg("plate updated")
	return plate, nil
}

// Delete removes a plate. Only the owning seller matches.
func (s *plateService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return err
	}

	ok, err := s.plateRepo.Delete(ctx, id, seller.ID)
	if err != nil {
		return fmt.Errorf("failed to delete plate: %w", err)
	}
	if !ok {
		return model.ErrPlateNotFound
	}

	s.logger.Info().Str("plate_id", id.String()).Msg("plate deleted")
	return nil
}

// GetByID retrieves a single plate by ID.
func (s *plateService) GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error) {
	plate, err := s.plateRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("plate_id", id.String()).Msg("failed to get plate by ID")
		return nil, fmt.Errorf("failed to get plate: %w", err)
	}
	if plate == nil {
		return nil, model.ErrPlateNotFound
	}
	return plate, nil
}

func (s *plateService) ListBySeller(ctx context.Context, caller auth.Identity) ([]model.Plate, error) {
	seller, err := requireSeller(ctx, s.sellerRepo, caller, s.logger)
	if err != nil {
		return nil, err
	}

	plates, err := s.plateRepo.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plates: %w", err)
	}
	return plates, nil
}

// ListAvailable retrieves available plates with pagination.
func (s *plateService) ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error) {
	limit, offset = clampPage(limit, offset)

	plates, err := s.plateRepo.ListAvailable(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list available plates")
		return nil, fmt.Errorf("failed to list plates: %w", err)
	}

	s.logger.Debug().
		Int("count", len(plates)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved plates")

	return plates, nil
}
