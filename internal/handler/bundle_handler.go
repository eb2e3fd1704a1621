package handler

import (
	"net/http"

	"homeplate/internal/model"
	"homeplate/internal/service"

	"github.com/rs/zerolog"
)

// BundleHandler handles bundle catalog and bundle checkout requests.
type BundleHandler struct {
	bundles service.BundleService
	orders  service.BundleOrderService
	logger  zerolog.Logger
}

// NewBundleHandler creates a new bundle handler.
func NewBundleHandler(bundles service.BundleService, orders service.BundleOrderService, logger zerolog.Logger) *BundleHandler {
	return &BundleHandler{
		bundles: bundles,
		orders:  orders,
		logger:  logger.With().Str("handler", "bundle").Logger(),
	}
}

// ListAvailable handles GET /api/bundles requests.
func (h *BundleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.bundles.GetAvailableBundles(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bundles)
}

// ListMine handles GET /api/bundles/mine requests.
func (h *BundleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	bundles, err := h.bundles.GetBundles(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bundles)
}

// GetByID handles GET /api/bundles/{id} requests.
func (h *BundleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	bundleID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	bundle, err := h.bundles.GetBundle(r.Context(), bundleID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// Create handles POST /api/bundles requests.
func (h *BundleHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.BundleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	bundle, err := h.bundles.CreateBundle(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, bundle)
}

// Update handles PUT /api/bundles/{id} requests.
func (h *BundleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	bundleID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.BundleUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	bundle, err := h.bundles.UpdateBundle(r.Context(), id, bundleID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// Delete handles DELETE /api/bundles/{id} requests.
func (h *BundleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	bundleID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.bundles.DeleteBundle(r.Context(), id, bundleID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateOrder handles POST /api/bundles/{id}/orders requests.
func (h *BundleHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	bundleID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.BundleOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	req.BundleID = bundleID
	req.IdempotencyKey = r.Header.Get(IdempotencyHeader)

	order, err := h.orders.CreateBundleOrder(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
