package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/db"
	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
	"github.com/dkellner/audiohaus-backend/pkg/pagination"
)

// Service exposes storefront reads and admin catalog management.
type Service interface {
	ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductListResult, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, name string) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ImageInput is one gallery entry; position follows slice order.
type ImageInput struct {
	URL string
}

// ColorInput is one finish option.
type ColorInput struct {
	Name string
	Hex  string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Brand       string
	Description *string
	PriceCents  *money.Cents
	ContactOnly bool
	StockCount  int
	CategoryID  *uuid.UUID
	Images      []ImageInput
	Colors      []ColorInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU         *string
	Name        *string
	Brand       *string
	Description *string
	PriceCents  *money.Cents
	ContactOnly *bool
	StockCount  *int
	CategoryID  *uuid.UUID
	Images      *[]ImageInput
	Colors      *[]ColorInput
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ListProducts returns one storefront page.
func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// GetProductBySlug loads the storefront detail page.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product by slug")
	}
	return NewProductDetail(product), nil
}

// GetProduct loads the admin detail view by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDetail(product), nil
}

// CreateProduct creates the product with its gallery and colors.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDetail, error) {
	if err := validatePricing(input.ContactOnly, input.PriceCents); err != nil {
		return nil, err
	}
	if input.StockCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_count must not be negative")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain letters or digits")
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			SKU:         strings.TrimSpace(input.SKU),
			Name:        name,
			Slug:        slug,
			Brand:       DefaultBrand(input.Brand, name),
			Description: input.Description,
			PriceCents:  input.PriceCents,
			ContactOnly: input.ContactOnly,
			StockCount:  input.StockCount,
			CategoryID:  input.CategoryID,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return mapCatalogWriteError(err, "db: insert product")
		}
		createdID = created.ID

		if err := txRepo.ReplaceImages(ctx, created.ID, buildImageRows(created.ID, input.Images)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product images")
		}
		if err := txRepo.ReplaceColors(ctx, created.ID, buildColorRows(created.ID, input.Colors)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product colors")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetProduct(ctx, createdID)
}

// UpdateProduct applies a partial update; the slug follows a renamed product.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDetail, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		slug := Slugify(name)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain letters or digits")
		}
		product.Name = name
		product.Slug = slug
	}
	if input.Brand != nil {
		product.Brand = DefaultBrand(*input.Brand, product.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ContactOnly != nil {
		product.ContactOnly = *input.ContactOnly
	}
	if input.PriceCents != nil {
		product.PriceCents = input.PriceCents
	}
	if input.ContactOnly != nil || input.PriceCents != nil {
		if product.ContactOnly {
			product.PriceCents = nil
		}
		if err := validatePricing(product.ContactOnly, product.PriceCents); err != nil {
			return nil, err
		}
	}
	if input.StockCount != nil {
		if *input.StockCount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_count must not be negative")
		}
		product.StockCount = *input.StockCount
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		product.CategoryID = input.CategoryID
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return mapCatalogWriteError(err, "db: update product")
		}
		if input.Images != nil {
			if err := txRepo.ReplaceImages(ctx, product.ID, buildImageRows(product.ID, *input.Images)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product images")
			}
		}
		if input.Colors != nil {
			if err := txRepo.ReplaceColors(ctx, product.ID, buildColorRows(product.ID, *input.Colors)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product colors")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.GetProduct(ctx, product.ID)
}

// DeleteProduct removes the product and its gallery.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ListCategories returns every category for navigation.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCategoryDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateCategory adds a category; the slug is derived from the name.
func (s *service) CreateCategory(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain letters or digits")
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, mapCatalogWriteError(err, "db: insert category")
	}
	return NewCategoryDTO(category), nil
}

// UpdateCategory renames a category; the slug follows the new name.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must contain letters or digits")
	}

	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	category.Name = name
	category.Slug = slug
	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, mapCatalogWriteError(err, "db: update category")
	}
	return NewCategoryDTO(updated), nil
}

// DeleteCategory removes a category and detaches its products.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// validatePricing enforces that contact-only products carry no price and
// orderable products always carry one.
func validatePricing(contactOnly bool, price *money.Cents) error {
	if contactOnly {
		if price != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "contact-only products must not carry a price")
		}
		return nil
	}
	if price == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents is required unless the product is contact-only")
	}
	if *price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
	}
	return nil
}

func mapCatalogWriteError(err error, message string) error {
	if db.IsUniqueViolation(err, "idx_products_sku") {
		return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
	}
	if db.IsUniqueViolation(err, "idx_products_slug") {
		return pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
	}
	if db.IsUniqueViolation(err, "idx_categories_slug") {
		return pkgerrors.New(pkgerrors.CodeConflict, "a category with this name already exists")
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "conflicting catalog entry")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func buildImageRows(productID uuid.UUID, inputs []ImageInput) []models.ProductImage {
	rows := make([]models.ProductImage, 0, len(inputs))
	for i, image := range inputs {
		rows = append(rows, models.ProductImage{
			ProductID: productID,
			Position:  i + 1,
			URL:       image.URL,
		})
	}
	return rows
}

func buildColorRows(productID uuid.UUID, inputs []ColorInput) []models.ProductColor {
	rows := make([]models.ProductColor, 0, len(inputs))
	for _, color := range inputs {
		rows = append(rows, models.ProductColor{
			ProductID: productID,
			Name:      color.Name,
			Hex:       color.Hex,
		})
	}
	return rows
}
