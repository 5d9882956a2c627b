package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// Cart is the persisted working set for a signed-in customer. Guest carts
// live in Redis and never touch this table.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartItem is one prospective purchase line. The (cart, product, color)
// triple is unique; adding the same pair increments Quantity instead.
type CartItem struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	CartID       uuid.UUID   `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product_color"`
	ProductID    uuid.UUID   `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product_color"`
	Color        string      `gorm:"column:color;not null;default:'';uniqueIndex:idx_cart_product_color"`
	Quantity     int         `gorm:"column:quantity;not null"`
	PriceCents   money.Cents `gorm:"column:price_cents;not null"`
	ProductName  string      `gorm:"column:product_name;not null"`
	ProductImage *string     `gorm:"column:product_image"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
