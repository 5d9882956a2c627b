package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

type stubResolver struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubResolver) FindDetailByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func newStubProduct(name string, priceCents int64, stock int, colors ...string) *models.Product {
	price := money.Cents(priceCents)
	product := &models.Product{
		ID:         uuid.New(),
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       name,
		PriceCents: &price,
		StockCount: stock,
	}
	for _, color := range colors {
		product.Colors = append(product.Colors, models.ProductColor{ProductID: product.ID, Name: color, Hex: "#000000"})
	}
	return product
}

func newTestService(t *testing.T, products ...*models.Product) (Service, *stubResolver) {
	t.Helper()
	resolver := &stubResolver{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		resolver.products[p.ID] = p
	}
	svc, err := NewService(NewMemoryStore(), resolver)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, resolver
}

func TestAddItemMergesSameProductAndColor(t *testing.T) {
	product := newStubProduct("Beoplay A9", 249900, 10, "Natural Oak")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Color: "Natural Oak", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Color: "Natural Oak", Quantity: 2})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}

	if len(cart.Lines) != 1 {
		t.Fatalf("expected single merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Lines[0].Quantity)
	}
	if cart.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", cart.ItemCount)
	}
	if cart.SubtotalCents != money.Cents(3*249900) {
		t.Fatalf("unexpected subtotal %d", cart.SubtotalCents)
	}
}

func TestAddItemDifferentColorsAreSeparateLines(t *testing.T) {
	product := newStubProduct("Beoplay A9", 249900, 10, "Natural Oak", "Black Anthracite")
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Color: "Natural Oak", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Color: "Black Anthracite", Quantity: 1})
	if err != nil {
		t.Fatalf("add second color: %v", err)
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Lines))
	}
}

func TestAddItemRejectsContactOnlyAndOutOfStock(t *testing.T) {
	contactOnly := newStubProduct("Wilson Alexx V", 0, 5)
	contactOnly.PriceCents = nil
	contactOnly.ContactOnly = true
	soldOut := newStubProduct("Focal Utopia", 479900, 0)
	svc, _ := newTestService(t, contactOnly, soldOut)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: contactOnly.ID, Quantity: 1})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.AddItem(ctx, "owner", AddItemInput{ProductID: soldOut.ID, Quantity: 1})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock error, got %v", err)
	}

	_, err = svc.AddItem(ctx, "owner", AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAddItemRejectsUnknownColor(t *testing.T) {
	product := newStubProduct("Beoplay A9", 249900, 10, "Natural Oak")
	svc, _ := newTestService(t, product)

	_, err := svc.AddItem(context.Background(), "owner", AddItemInput{ProductID: product.ID, Color: "Chrome", Quantity: 1})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	product := newStubProduct("KEF LS50 Meta", 119900, 10)
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.UpdateItem(ctx, "owner", product.ID, "", 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(cart.Lines) != 0 || cart.ItemCount != 0 || cart.SubtotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	if _, err := svc.UpdateItem(ctx, "owner", product.ID, "", 1); err == nil {
		t.Fatal("expected not found for removed line")
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	product := newStubProduct("Rega Planar 3", 109900, 4)
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.RemoveItem(ctx, "owner", product.ID, "")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatal("expected line removed")
	}

	if _, err := svc.AddItem(ctx, "owner", AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if err := svc.Clear(ctx, "owner"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	reloaded, err := svc.Get(ctx, "owner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(reloaded.Lines) != 0 {
		t.Fatal("expected cleared cart")
	}
}

func TestCartsAreIsolatedPerOwner(t *testing.T) {
	product := newStubProduct("Linn Majik DSM", 329900, 5)
	svc, _ := newTestService(t, product)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "alice", AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	other, err := svc.Get(ctx, "bob")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(other.Lines) != 0 {
		t.Fatal("carts must be isolated per owner")
	}
}
