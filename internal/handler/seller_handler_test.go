package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSellerHandler(t *testing.T) {
	caller := &auth.Identity{UserID: uuid.New()}

	t.Run("Create profile", func(t *testing.T) {
		mockService := new(MockSellerService)
		handler := NewSellerHandler(mockService, zerolog.Nop())

		mockService.On("CreateProfile", mock.Anything, *caller, &model.SellerProfileRequest{BusinessName: "Nonna's"}).
			Return(&model.SellerProfile{ID: uuid.New(), UserID: caller.UserID, BusinessName: "Nonna's"}, nil)

		req := newRequest(t, http.MethodPost, "/api/seller/profile", &model.SellerProfileRequest{BusinessName: "Nonna's"}, caller, nil)
		w := httptest.NewRecorder()

		handler.CreateProfile(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Create profile twice", func(t *testing.T) {
		mockService := new(MockSellerService)
		handler := NewSellerHandler(mockService, zerolog.Nop())

		mockService.On("CreateProfile", mock.Anything, *caller, mock.Anything).Return(nil, model.ErrSellerProfileExists)

		req := newRequest(t, http.MethodPost, "/api/seller/profile", &model.SellerProfileRequest{BusinessName: "Nonna's"}, caller, nil)
		w := httptest.NewRecorder()

		handler.CreateProfile(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Get missing profile", func(t *testing.T) {
		mockService := new(MockSellerService)
		handler := NewSellerHandler(mockService, zerolog.Nop())

		mockService.On("GetProfile", mock.Anything, *caller).Return(nil, model.ErrSellerProfileRequired)

		req := newRequest(t, http.MethodGet, "/api/seller/profile", nil, caller, nil)
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, model.ErrCodeSellerProfileRequired, decodeError(t, w.Body).Error)
	})
}
