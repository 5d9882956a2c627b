package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// Product represents a catalog listing. PriceCents is nil for contact-only
// products; ContactOnly mirrors that so the invariant is queryable.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	SKU         string         `gorm:"column:sku;not null;uniqueIndex"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Brand       string         `gorm:"column:brand;not null"`
	Description *string        `gorm:"column:description"`
	PriceCents  *money.Cents   `gorm:"column:price_cents"`
	ContactOnly bool           `gorm:"column:contact_only;not null;default:false"`
	StockCount  int            `gorm:"column:stock_count;not null;default:0"`
	CategoryID  *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	Category    *Category      `gorm:"foreignKey:CategoryID"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Colors      []ProductColor `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductImage is one entry in the ordered product gallery.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Position  int       `gorm:"column:position;not null"`
	URL       string    `gorm:"column:url;not null"`
}

func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ProductColor is a selectable finish for a product.
type ProductColor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Hex       string    `gorm:"column:hex;not null"`
}

func (c *ProductColor) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
