package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdempotencyHeader carries the client's checkout deduplication key.
const IdempotencyHeader = "Idempotency-Key"

const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes onto HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:             http.StatusBadRequest,
	model.ErrCodeInvalidRequest:          http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:         http.StatusBadRequest,
	model.ErrCodeInvalidSelection:        http.StatusUnprocessableEntity,
	model.ErrCodeUnauthenticated:         http.StatusUnauthorized,
	model.ErrCodeForbidden:               http.StatusForbidden,
	model.ErrCodeSellerProfileRequired:   http.StatusForbidden,
	model.ErrCodeSellerProfileExists:     http.StatusConflict,
	model.ErrCodePlateInUse:              http.StatusConflict,
	model.ErrCodePlateNotFound:           http.StatusNotFound,
	model.ErrCodeBundleNotFound:          http.StatusNotFound,
	model.ErrCodeOrderNotFound:           http.StatusNotFound,
	model.ErrCodeInsufficientStock:       http.StatusConflict,
	model.ErrCodeBundleUnavailable:       http.StatusConflict,
	model.ErrCodeInvalidStatusTransition: http.StatusConflict,
	model.ErrCodeOrderNotDeletable:       http.StatusConflict,
	model.ErrCodeDuplicateCheckout:       http.StatusConflict,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError translates a service error into a response. Errors that
// are not domain errors become a generic 500 so storage details stay internal.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	domainErr, ok := model.AsDomainError(err)
	if !ok {
		logger.Error().Err(err).Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status, ok := statusByCode[domainErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return err
	}
	return nil
}

// caller returns the authenticated identity or writes a 401.
func caller(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeServiceError(w, model.ErrUnauthenticated, logger)
		return auth.Identity{}, false
	}
	return id, true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid ID format", logger)
		return uuid.Nil, false
	}
	return id, true
}

// pagination parses the limit and offset query parameters. Zero values leave
// the defaults to the service.
func pagination(r *http.Request) (limit, offset int, err error) {
	if s := r.URL.Query().Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("invalid limit parameter")
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("invalid offset parameter")
		}
	}
	return limit, offset, nil
}
