package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/money"
	"github.com/dkellner/audiohaus-backend/pkg/pagination"
)

// ProductListFilters describe the inputs supported by the product list.
type ProductListFilters struct {
	CategorySlug  string
	Brand         string
	PriceMinCents *int64
	PriceMaxCents *int64
	InStockOnly   bool
	Query         string
}

// CategoryDTO is the category wire shape.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ImageDTO is one gallery entry ordered by position.
type ImageDTO struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
}

// ColorDTO is one selectable finish.
type ColorDTO struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ProductSummary exposes the fields rendered on listing pages.
type ProductSummary struct {
	ID         uuid.UUID    `json:"id"`
	SKU        string       `json:"sku"`
	Name       string       `json:"name"`
	Slug       string       `json:"slug"`
	Brand      string       `json:"brand"`
	PriceCents *money.Cents `json:"price_cents,omitempty"`
	// ContactOnly products carry no price and cannot be ordered online.
	ContactOnly bool         `json:"contact_only"`
	InStock     bool         `json:"in_stock"`
	Category    *CategoryDTO `json:"category,omitempty"`
	Image       *string      `json:"image,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ProductDetail is the full product wire shape for the detail page.
type ProductDetail struct {
	ID          uuid.UUID    `json:"id"`
	SKU         string       `json:"sku"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Brand       string       `json:"brand"`
	Description *string      `json:"description,omitempty"`
	PriceCents  *money.Cents `json:"price_cents,omitempty"`
	ContactOnly bool         `json:"contact_only"`
	StockCount  int          `json:"stock_count"`
	Category    *CategoryDTO `json:"category,omitempty"`
	Images      []ImageDTO   `json:"images"`
	Colors      []ColorDTO   `json:"colors"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProductListResult wraps one page of products with pagination metadata.
type ProductListResult struct {
	Products []ProductSummary `json:"products"`
	Meta     pagination.Meta  `json:"meta"`
}

// NewCategoryDTO maps the category row onto the wire shape.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

// NewProductSummary maps a product row onto the listing shape.
func NewProductSummary(product *models.Product) ProductSummary {
	summary := ProductSummary{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Slug:        product.Slug,
		Brand:       product.Brand,
		PriceCents:  product.PriceCents,
		ContactOnly: product.ContactOnly,
		InStock:     product.StockCount > 0,
		Category:    NewCategoryDTO(product.Category),
		CreatedAt:   product.CreatedAt,
	}
	if len(product.Images) > 0 {
		url := product.Images[0].URL
		summary.Image = &url
	}
	return summary
}

// NewProductDetail maps a product row with associations onto the detail shape.
func NewProductDetail(product *models.Product) *ProductDetail {
	detail := &ProductDetail{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Slug:        product.Slug,
		Brand:       product.Brand,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		ContactOnly: product.ContactOnly,
		StockCount:  product.StockCount,
		Category:    NewCategoryDTO(product.Category),
		Images:      make([]ImageDTO, 0, len(product.Images)),
		Colors:      make([]ColorDTO, 0, len(product.Colors)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for _, image := range product.Images {
		detail.Images = append(detail.Images, ImageDTO{Position: image.Position, URL: image.URL})
	}
	for _, color := range product.Colors {
		detail.Colors = append(detail.Colors, ColorDTO{Name: color.Name, Hex: color.Hex})
	}
	return detail
}
