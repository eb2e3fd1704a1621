package handler

import (
	"net/http"

	"homeplate/internal/model"
	"homeplate/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	req.IdempotencyKey = r.Header.Get(IdempotencyHeader)

	order, err := h.service.CreateOrder(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests. The caller's purchases are listed
// unless ?as=seller asks for the orders placed with the caller's kitchen.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}

	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, err.Error(), h.logger)
		return
	}

	var orders []model.Order
	switch r.URL.Query().Get("as") {
	case "", "customer":
		orders, err = h.service.ListForCustomer(r.Context(), id, limit, offset)
	case "seller":
		orders, err = h.service.ListForSeller(r.Context(), id, limit, offset)
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "as must be customer or seller", h.logger)
		return
	}
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id, orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req model.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r, h.logger)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, orderID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
