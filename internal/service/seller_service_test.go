package service

import (
	"context"
	"errors"
	"testing"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSellerService_CreateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name      string
		request   *model.SellerProfileRequest
		repoErr   error
		expectErr error
		errCode   string
	}{
		{name: "Success", request: &model.SellerProfileRequest{BusinessName: " Nonna's Kitchen "}},
		{name: "Missing name", request: &model.SellerProfileRequest{BusinessName: "  "}, errCode: model.ErrCodeInvalidRequest},
		{name: "Nil request", request: nil, errCode: model.ErrCodeInvalidRequest},
		{
			name:      "Already onboarded",
			request:   &model.SellerProfileRequest{BusinessName: "Nonna's Kitchen"},
			repoErr:   model.ErrSellerProfileExists,
			expectErr: model.ErrSellerProfileExists,
		},
		{
			name:    "Repository error",
			request: &model.SellerProfileRequest{BusinessName: "Nonna's Kitchen"},
			repoErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sellerRepo := new(MockSellerRepository)
			svc := NewSellerService(sellerRepo, zerolog.Nop())

			if tt.errCode == "" {
				sellerRepo.On("Create", ctx, mock.MatchedBy(func(p *model.SellerProfile) bool {
					return p.UserID == userID && p.BusinessName == "Nonna's Kitchen"
				})).Return(tt.repoErr)
			}

			profile, err := svc.CreateProfile(ctx, auth.Identity{UserID: userID}, tt.request)

			switch {
			case tt.errCode != "":
				domainErr, ok := model.AsDomainError(err)
				require.True(t, ok)
				assert.Equal(t, tt.errCode, domainErr.Code)
				sellerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			case tt.repoErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create seller profile")
			default:
				require.NoError(t, err)
				assert.Equal(t, "Nonna's Kitchen", profile.BusinessName)
			}
		})
	}
}

func TestSellerService_GetProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		svc := NewSellerService(sellerRepo, zerolog.Nop())
		stored := &model.SellerProfile{ID: uuid.New(), UserID: userID}

		sellerRepo.On("GetByUserID", ctx, userID).Return(stored, nil)

		profile, err := svc.GetProfile(ctx, auth.Identity{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, stored.ID, profile.ID)
	})

	t.Run("Not onboarded", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		svc := NewSellerService(sellerRepo, zerolog.Nop())

		sellerRepo.On("GetByUserID", ctx, userID).Return(nil, nil)

		_, err := svc.GetProfile(ctx, auth.Identity{UserID: userID})
		assert.ErrorIs(t, err, model.ErrSellerProfileRequired)
	})

	t.Run("Repository error", func(t *testing.T) {
		sellerRepo := new(MockSellerRepository)
		svc := NewSellerService(sellerRepo, zerolog.Nop())

		sellerRepo.On("GetByUserID", ctx, userID).Return(nil, errors.New("connection refused"))

		_, err := svc.GetProfile(ctx, auth.Identity{UserID: userID})
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrSellerProfileRequired)
	})
}
