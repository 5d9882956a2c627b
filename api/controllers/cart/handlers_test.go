package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/api/middleware"
	cartsvc "github.com/dkellner/audiohaus-backend/internal/cart"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

type stubCartService struct {
	cart         *cartsvc.Cart
	err          error
	lastOwner    string
	lastAddInput cartsvc.AddItemInput
	cleared      bool
}

func (s *stubCartService) Get(_ context.Context, owner string) (*cartsvc.Cart, error) {
	s.lastOwner = owner
	return s.cart, s.err
}

func (s *stubCartService) AddItem(_ context.Context, owner string, input cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	s.lastOwner = owner
	s.lastAddInput = input
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, owner string, _ uuid.UUID, _ string, _ int) (*cartsvc.Cart, error) {
	s.lastOwner = owner
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, owner string, _ uuid.UUID, _ string) (*cartsvc.Cart, error) {
	s.lastOwner = owner
	return s.cart, s.err
}

func (s *stubCartService) Clear(_ context.Context, owner string) error {
	s.lastOwner = owner
	s.cleared = true
	return s.err
}

func testCart() *cartsvc.Cart {
	cart := &cartsvc.Cart{
		Lines: []cartsvc.Line{
			{
				ProductID:   uuid.New(),
				Color:       "Black",
				Quantity:    2,
				PriceCents:  money.Cents(45000),
				ProductName: "Reference Monitor",
			},
		},
	}
	cart.Normalize()
	return cart
}

func withOwner(req *http.Request, owner string) *http.Request {
	return req.WithContext(middleware.WithCartOwner(req.Context(), owner))
}

func TestCartFetchSuccess(t *testing.T) {
	owner := uuid.NewString()
	svc := &stubCartService{cart: testCart()}
	handler := Fetch(svc, nil)

	req := withOwner(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), owner)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastOwner != owner {
		t.Fatalf("expected owner %q got %q", owner, svc.lastOwner)
	}

	var envelope struct {
		Data cartsvc.Cart `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected item count %d", envelope.Data.ItemCount)
	}
	if envelope.Data.SubtotalCents != 90000 {
		t.Fatalf("unexpected subtotal %d", envelope.Data.SubtotalCents)
	}
}

func TestCartFetchWithoutSessionFails(t *testing.T) {
	handler := Fetch(&stubCartService{cart: testCart()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCartAddItemForwardsPayload(t *testing.T) {
	productID := uuid.New()
	svc := &stubCartService{cart: testCart()}
	handler := AddItem(svc, nil)

	body := `{"product_id":"` + productID.String() + `","color":"Walnut","quantity":3}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastAddInput.ProductID != productID {
		t.Fatalf("unexpected product %s", svc.lastAddInput.ProductID)
	}
	if svc.lastAddInput.Color != "Walnut" || svc.lastAddInput.Quantity != 3 {
		t.Fatalf("unexpected input %+v", svc.lastAddInput)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	svc := &stubCartService{cart: testCart()}
	handler := AddItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":0}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemPropagatesNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := AddItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	handler := Clear(svc, nil)

	req := withOwner(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected Clear to be invoked")
	}
}
