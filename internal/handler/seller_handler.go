package handler

import (
	"net/http"

	"homeplate/internal/model"
	"homeplate/internal/service"

	"github.com/rs/zerolog"
)

// SellerHandler handles seller onboarding requests.
type SellerHandler struct {
	service service.SellerService
	logger  zerolog.Logger
}

// NewSellerHandler creates a new seller handler.
func NewSellerHandler(service service.SellerService, logger zerolog.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		logger:  logger.With().Str("handler", "seller").Logger(),
	}
}

// GetProfile handles GET /api/seller/profile requests.
func (h *SellerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// CreateProfile handles POST /api/seller/profile requests.
func (h *SellerHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.SellerProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}
