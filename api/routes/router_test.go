package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/internal/accounts"
	cartsvc "github.com/dkellner/audiohaus-backend/internal/cart"
	catalogsvc "github.com/dkellner/audiohaus-backend/internal/catalog"
	checkoutsvc "github.com/dkellner/audiohaus-backend/internal/checkout"
	featuredsvc "github.com/dkellner/audiohaus-backend/internal/featured"
	ordersvc "github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/internal/pricing"
	pkgauth "github.com/dkellner/audiohaus-backend/pkg/auth"
	"github.com/dkellner/audiohaus-backend/pkg/config"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(context.Context, pagination.Params, catalogsvc.ProductListFilters) (*catalogsvc.ProductListResult, error) {
	return &catalogsvc.ProductListResult{}, nil
}

func (stubCatalogService) GetProductBySlug(context.Context, string) (*catalogsvc.ProductDetail, error) {
	return &catalogsvc.ProductDetail{}, nil
}

func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalogsvc.ProductDetail, error) {
	return &catalogsvc.ProductDetail{}, nil
}

func (stubCatalogService) CreateProduct(context.Context, catalogsvc.CreateProductInput) (*catalogsvc.ProductDetail, error) {
	return &catalogsvc.ProductDetail{}, nil
}

func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalogsvc.UpdateProductInput) (*catalogsvc.ProductDetail, error) {
	return &catalogsvc.ProductDetail{}, nil
}

func (stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (stubCatalogService) ListCategories(context.Context) ([]catalogsvc.CategoryDTO, error) {
	return nil, nil
}

func (stubCatalogService) CreateCategory(context.Context, string) (*catalogsvc.CategoryDTO, error) {
	return &catalogsvc.CategoryDTO{}, nil
}

func (stubCatalogService) UpdateCategory(context.Context, uuid.UUID, string) (*catalogsvc.CategoryDTO, error) {
	return &catalogsvc.CategoryDTO{}, nil
}

func (stubCatalogService) DeleteCategory(context.Context, uuid.UUID) error {
	return nil
}

type stubFeaturedService struct{}

func (stubFeaturedService) List(context.Context) ([]featuredsvc.Slot, error) {
	return []featuredsvc.Slot{}, nil
}

func (stubFeaturedService) Set(context.Context, int, *uuid.UUID) ([]featuredsvc.Slot, error) {
	return []featuredsvc.Slot{}, nil
}

type stubCartService struct{}

func (stubCartService) Get(context.Context, string) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) AddItem(context.Context, string, cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) UpdateItem(context.Context, string, uuid.UUID, string, int) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) RemoveItem(context.Context, string, uuid.UUID, string) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{}, nil
}

func (stubCartService) Clear(context.Context, string) error {
	return nil
}

type stubAccountService struct{}

func (stubAccountService) Register(context.Context, accounts.RegisterInput) (*accounts.AuthResult, error) {
	return &accounts.AuthResult{}, nil
}

func (stubAccountService) Login(context.Context, accounts.LoginInput) (*accounts.AuthResult, error) {
	return &accounts.AuthResult{}, nil
}

func (stubAccountService) Profile(context.Context, uuid.UUID) (*accounts.UserDTO, error) {
	return &accounts.UserDTO{}, nil
}

func (stubAccountService) UpdateProfile(context.Context, uuid.UUID, accounts.UpdateProfileInput) (*accounts.UserDTO, error) {
	return &accounts.UserDTO{}, nil
}

func (stubAccountService) ListAddresses(context.Context, uuid.UUID) ([]accounts.AddressDTO, error) {
	return nil, nil
}

func (stubAccountService) CreateAddress(context.Context, uuid.UUID, accounts.AddressInput) (*accounts.AddressDTO, error) {
	return &accounts.AddressDTO{}, nil
}

func (stubAccountService) UpdateAddress(context.Context, uuid.UUID, uuid.UUID, accounts.AddressInput) (*accounts.AddressDTO, error) {
	return &accounts.AddressDTO{}, nil
}

func (stubAccountService) DeleteAddress(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Quote(context.Context, []checkoutsvc.ItemInput) (*pricing.Quote, error) {
	return &pricing.Quote{}, nil
}

func (stubCheckoutService) PlaceOrder(context.Context, checkoutsvc.PlaceOrderInput) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

type stubOrderService struct{}

func (stubOrderService) ListOrders(context.Context, pagination.Params, ordersvc.OrderFilters) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrderService) GetOrder(context.Context, uuid.UUID) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

func (stubOrderService) GetByOrderNumber(context.Context, string) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

func (stubOrderService) ListUserOrders(context.Context, uuid.UUID, pagination.Params) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{}, nil
}

func (stubOrderService) UpdateOrder(context.Context, uuid.UUID, ordersvc.UpdateOrderInput) (*ordersvc.OrderDetail, error) {
	return &ordersvc.OrderDetail{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "audiohaus-test",
			ExpirationMinutes: 30,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		nil, // http metrics
		nil, // idempotency store
		stubCatalogService{},
		stubFeaturedService{},
		stubCartService{},
		stubAccountService{},
		stubCheckoutService{},
		stubOrderService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@audiohaus.example",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Audiohaus-Env"); env != "test" {
		t.Fatalf("unexpected env header %q", env)
	}
}

func TestStorefrontRoutesArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/products", "/api/v1/categories", "/api/v1/featured"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestAccountGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAccountGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminGroupRejectsAnonymous(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartIssuesGuestToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Cart-Token") == "" {
		t.Fatal("expected a guest cart token on the response")
	}
}

func TestGuestCheckoutNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{
		"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}],
		"shipping":{
			"first_name":"Nina","last_name":"Berg","email":"nina@audiohaus.example",
			"street":"Prinsengracht 12","city":"Amsterdam","postal_code":"1015 DV","phone":"+31612345678"
		},
		"payment_method":"bank_transfer"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestTrackOrderIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/number/AH12345678", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
