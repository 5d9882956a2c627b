package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// Order is immutable once created: the monetary fields and the shipping
// snapshot are never recomputed or updated after placement. Only status,
// payment status, tracking number, and notes may change.
type Order struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber string     `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	GuestEmail  *string    `gorm:"column:guest_email"`
	GuestPhone  *string    `gorm:"column:guest_phone"`

	ShipFirstName  string  `gorm:"column:ship_first_name;not null"`
	ShipLastName   string  `gorm:"column:ship_last_name;not null"`
	ShipEmail      string  `gorm:"column:ship_email;not null"`
	ShipStreet     string  `gorm:"column:ship_street;not null"`
	ShipCity       string  `gorm:"column:ship_city;not null"`
	ShipPostalCode string  `gorm:"column:ship_postal_code;not null"`
	ShipCountry    *string `gorm:"column:ship_country"`
	ShipPhone      string  `gorm:"column:ship_phone;not null"`

	SubtotalCents money.Cents `gorm:"column:subtotal_cents;not null"`
	ShippingCents money.Cents `gorm:"column:shipping_cents;not null"`
	TaxCents      money.Cents `gorm:"column:tax_cents;not null"`
	TotalCents    money.Cents `gorm:"column:total_cents;not null"`

	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	TrackingNumber *string             `gorm:"column:tracking_number"`
	Notes          *string             `gorm:"column:notes"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is an immutable snapshot of a purchased line. Product name,
// SKU, and image are denormalized so historical orders render correctly
// even after the product changes or is deleted.
type OrderItem struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID   `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    *uuid.UUID  `gorm:"column:product_id;type:uuid"`
	ProductName  string      `gorm:"column:product_name;not null"`
	ProductSKU   string      `gorm:"column:product_sku;not null"`
	ProductImage *string     `gorm:"column:product_image"`
	Color        *string     `gorm:"column:color"`
	Quantity     int         `gorm:"column:quantity;not null"`
	PriceCents   money.Cents `gorm:"column:price_cents;not null"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
