package handler

import (
	"net/http"

	"homeplate/internal/model"
	"homeplate/internal/service"

	"github.com/rs/zerolog"
)

// PlateHandler handles plate catalog requests.
type PlateHandler struct {
	service service.PlateService
	logger  zerolog.Logger
}

// NewPlateHandler creates a new plate handler.
func NewPlateHandler(service service.PlateService, logger zerolog.Logger) *PlateHandler {
	return &PlateHandler{
		service: service,
		logger:  logger.With().Str("handler", "plate").Logger(),
	}
}

// ListAvailable handles GET /api/plates requests with pagination.
func (h *PlateHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error(), h.logger)
		return
	}

	plates, err := h.service.ListAvailable(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plates)
}

// ListMine handles GET /api/plates/mine requests.
func (h *PlateHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	plates, err := h.service.ListBySeller(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plates)
}

// GetByID handles GET /api/plates/{id} requests.
func (h *PlateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	plateID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	plate, err := h.service.GetByID(r.Context(), plateID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plate)
}

// Create handles POST /api/plates requests.
func (h *PlateHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.PlateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	plate, err := h.service.Add(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, plate)
}

// Update handles PUT /api/plates/{id} requests.
func (h *PlateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	plateID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.PlateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	plate, err := h.service.Update(r.Context(), id, plateID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, plate)
}

// Delete handles DELETE /api/plates/{id} requests.
func (h *PlateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	plateID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, plateID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
