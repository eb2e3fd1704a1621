package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeplate/internal/auth"
	"homeplate/internal/model"
	"homeplate/internal/repository"

	"github.com/rs/zerolog"
)

type sellerService struct {
	sellerRepo repository.SellerRepository
	logger     zerolog.Logger
}

// NewSellerService creates a new seller profile service.
func NewSellerService(sellerRepo repository.SellerRepository, logger zerolog.Logger) SellerService {
	return &sellerService{
		sellerRepo: sellerRepo,
		logger:     logger.With().Str("service", "seller").Logger(),
	}
}

func (s *sellerService) GetProfile(ctx context.Context, caller auth.Identity) (*model.SellerProfile, error) {
	return requireSeller(ctx, s.sellerRepo, caller, s.logger)
}

func (s *sellerService) CreateProfile(ctx context.Context, caller auth.Identity, req *model.SellerProfileRequest) (*model.SellerProfile, error) {
	if req == nil || strings.TrimSpace(req.BusinessName) == "" {
		return nil, invalidRequest(fmt.Errorf("business name is required"))
	}

	profile := &model.SellerProfile{
		UserID:       caller.UserID,
		BusinessName: strings.TrimSpace(req.BusinessName),
		Description:  req.Description,
	}
	if err := s.sellerRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, model.ErrSellerProfileExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create seller profile: %w", err)
	}

	s.logger.Info().
		Str("seller_id", profile.ID.String()).
		Str("user_id", caller.UserID.String()).
		Msg("seller profile created")

	return profile, nil
}

// requireSeller resolves the caller's seller profile. Callers without one get
// model.ErrSellerProfileRequired.
func requireSeller(ctx context.Context, repo repository.SellerRepository, caller auth.Identity, logger zerolog.Logger) (*model.SellerProfile, error) {
	profile, err := repo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", caller.UserID.String()).Msg("failed to resolve seller profile")
		return nil, fmt.Errorf("failed to resolve seller profile: %w", err)
	}
	if profile == nil {
		logger.Debug().Str("user_id", caller.UserID.String()).Msg("seller profile not found")
		return nil, model.ErrSellerProfileRequired
	}
	return profile, nil
}
