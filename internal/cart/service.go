package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
)

// productResolver loads catalog rows for cart validation and snapshots.
type productResolver interface {
	FindDetailByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// AddItemInput is the validated payload for adding to a cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Color     string
	Quantity  int
}

// Service owns cart mutations. All operations load, mutate, and persist
// the whole cart through the configured store.
type Service interface {
	Get(ctx context.Context, owner string) (*Cart, error)
	AddItem(ctx context.Context, owner string, input AddItemInput) (*Cart, error)
	UpdateItem(ctx context.Context, owner string, productID uuid.UUID, color string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, owner string, productID uuid.UUID, color string) (*Cart, error)
	Clear(ctx context.Context, owner string) error
}

type service struct {
	store    Store
	products productResolver
}

// NewService constructs a cart service backed by the provided store.
func NewService(store Store, products productResolver) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	return &service{store: store, products: products}, nil
}

func (s *service) Get(ctx context.Context, owner string) (*Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.Normalize()
	return cart, nil
}

// AddItem validates the product and merges the line into the cart. The
// price snapshot is taken from the catalog, never from the caller.
func (s *service) AddItem(ctx context.Context, owner string, input AddItemInput) (*Cart, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindDetailByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.ContactOnly || product.PriceCents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact-only products cannot be added to a cart")
	}
	if product.StockCount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock")
	}

	color := strings.TrimSpace(input.Color)
	if color != "" && !productHasColor(product, color) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown color for this product")
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	if idx := cart.findLine(product.ID, color); idx >= 0 {
		cart.Lines[idx].Quantity += input.Quantity
		// Refresh the snapshot so a stale cart shows current pricing.
		cart.Lines[idx].PriceCents = *product.PriceCents
		cart.Lines[idx].ProductName = product.Name
		cart.Lines[idx].ProductImage = firstImageURL(product)
	} else {
		cart.Lines = append(cart.Lines, Line{
			ProductID:    product.ID,
			Color:        color,
			Quantity:     input.Quantity,
			PriceCents:   *product.PriceCents,
			ProductName:  product.Name,
			ProductImage: firstImageURL(product),
		})
	}

	return s.persist(ctx, owner, cart)
}

// UpdateItem sets the quantity for an existing line; zero removes it.
func (s *service) UpdateItem(ctx context.Context, owner string, productID uuid.UUID, color string, quantity int) (*Cart, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := cart.findLine(productID, strings.TrimSpace(color))
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	if quantity == 0 {
		cart.removeLine(idx)
	} else {
		cart.Lines[idx].Quantity = quantity
	}

	return s.persist(ctx, owner, cart)
}

func (s *service) RemoveItem(ctx context.Context, owner string, productID uuid.UUID, color string) (*Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	idx := cart.findLine(productID, strings.TrimSpace(color))
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	cart.removeLine(idx)

	return s.persist(ctx, owner, cart)
}

func (s *service) Clear(ctx context.Context, owner string) error {
	if err := s.store.Delete(ctx, owner); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, owner string) (*Cart, error) {
	cart, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) persist(ctx context.Context, owner string, cart *Cart) (*Cart, error) {
	cart.Normalize()
	if err := s.store.Save(ctx, owner, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}

func productHasColor(product *models.Product, color string) bool {
	for _, c := range product.Colors {
		if strings.EqualFold(c.Name, color) {
			return true
		}
	}
	return false
}

func firstImageURL(product *models.Product) *string {
	if len(product.Images) == 0 {
		return nil
	}
	url := product.Images[0].URL
	return &url
}
