package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"homeplate/internal/auth"
	"homeplate/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, caller auth.Identity, req *model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, caller auth.Identity, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListForCustomer(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListForSeller(ctx context.Context, caller auth.Identity, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, caller auth.Identity, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, caller, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

// MockBundleService is a mock implementation of BundleService.
type MockBundleService struct {
	mock.Mock
}

func (m *MockBundleService) CreateBundle(ctx context.Context, caller auth.Identity, req *model.BundleRequest) (*model.Bundle, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bundle), args.Error(1)
}

func (m *MockBundleService) GetBundles(ctx context.Context, caller auth.Identity) ([]model.Bundle, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bundle), args.Error(1)
}

func (m *MockBundleService) GetAvailableBundles(ctx context.Context) ([]model.Bundle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bundle), args.Error(1)
}

func (m *MockBundleService) GetBundle(ctx context.Context, id uuid.UUID) (*model.Bundle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bundle), args.Error(1)
}

func (m *MockBundleService) UpdateBundle(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.BundleUpdateRequest) (*model.Bundle, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bundle), args.Error(1)
}

func (m *MockBundleService) DeleteBundle(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

// MockBundleOrderService is a mock implementation of BundleOrderService.
type MockBundleOrderService struct {
	mock.Mock
}

func (m *MockBundleOrderService) CreateBundleOrder(ctx context.Context, caller auth.Identity, req *model.BundleOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockPlateService is a mock implementation of PlateService.
type MockPlateService struct {
	mock.Mock
}

func (m *MockPlateService) Add(ctx context.Context, caller auth.Identity, req *model.PlateRequest) (*model.Plate, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plate), args.Error(1)
}

func (m *MockPlateService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, req *model.PlateRequest) (*model.Plate, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plate), args.Error(1)
}

func (m *MockPlateService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockPlateService) GetByID(ctx context.Context, id uuid.UUID) (*model.Plate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plate), args.Error(1)
}

func (m *MockPlateService) ListBySeller(ctx context.Context, caller auth.Identity) ([]model.Plate, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plate), args.Error(1)
}

func (m *MockPlateService) ListAvailable(ctx context.Context, limit, offset int) ([]model.Plate, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Plate), args.Error(1)
}

// MockSellerService is a mock implementation of SellerService.
type MockSellerService struct {
	mock.Mock
}

func (m *MockSellerService) GetProfile(ctx context.Context, caller auth.Identity) (*model.SellerProfile, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SellerProfile), args.Error(1)
}

func (m *MockSellerService) CreateProfile(ctx context.Context, caller auth.Identity, req *model.SellerProfileRequest) (*model.SellerProfile, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SellerProfile), args.Error(1)
}

// newRequest builds a request with an optional JSON body, caller identity and
// chi URL parameters already attached.
func newRequest(t *testing.T, method, path string, body interface{}, caller *auth.Identity, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if caller != nil {
		ctx = auth.WithIdentity(ctx, *caller)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, body *bytes.Buffer) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}
