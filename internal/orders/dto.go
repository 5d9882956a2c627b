package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	"github.com/dkellner/audiohaus-backend/pkg/money"
	"github.com/dkellner/audiohaus-backend/pkg/pagination"
)

// OrderFilters describe the inputs supported by the admin orders list.
type OrderFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Query         string
}

// OrderSummary exposes the aggregated fields returned in list views.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	TotalCents    money.Cents         `json:"total_cents"`
	TotalItems    int                 `json:"total_items"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated summaries plus page metadata.
type OrderList struct {
	Orders []OrderSummary  `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// OrderItemDTO is one purchased line as stored at placement time.
type OrderItemDTO struct {
	ProductID    *uuid.UUID  `json:"product_id,omitempty"`
	ProductName  string      `json:"product_name"`
	ProductSKU   string      `json:"product_sku"`
	ProductImage *string     `json:"product_image,omitempty"`
	Color        *string     `json:"color,omitempty"`
	Quantity     int         `json:"quantity"`
	PriceCents   money.Cents `json:"price_cents"`
	LineTotal    money.Cents `json:"line_total_cents"`
}

// ShippingDTO is the address snapshot taken at placement time.
type ShippingDTO struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Country    *string `json:"country,omitempty"`
	Phone      string  `json:"phone"`
}

// OrderDetail is the full order wire shape.
type OrderDetail struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	UserID         *uuid.UUID          `json:"user_id,omitempty"`
	Shipping       ShippingDTO         `json:"shipping"`
	Items          []OrderItemDTO      `json:"items"`
	SubtotalCents  money.Cents         `json:"subtotal_cents"`
	ShippingCents  money.Cents         `json:"shipping_cents"`
	TaxCents       money.Cents         `json:"tax_cents"`
	TotalCents     money.Cents         `json:"total_cents"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentStatus  enums.PaymentStatus `json:"payment_status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	TrackingNumber *string             `json:"tracking_number,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// UpdateOrderInput holds the mutable admin fields. Monetary fields and
// the shipping snapshot are immutable after placement.
type UpdateOrderInput struct {
	Status         *enums.OrderStatus
	PaymentStatus  *enums.PaymentStatus
	TrackingNumber *string
	Notes          *string
}

// NewOrderSummary maps an order row onto the list shape.
func NewOrderSummary(order *models.Order) OrderSummary {
	totalItems := 0
	for _, item := range order.Items {
		totalItems += item.Quantity
	}
	return OrderSummary{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.ShipFirstName + " " + order.ShipLastName,
		CustomerEmail: order.ShipEmail,
		TotalCents:    order.TotalCents,
		TotalItems:    totalItems,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
	}
}

// NewOrderDetail maps an order row with items onto the detail shape.
func NewOrderDetail(order *models.Order) *OrderDetail {
	detail := &OrderDetail{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Shipping: ShippingDTO{
			FirstName:  order.ShipFirstName,
			LastName:   order.ShipLastName,
			Email:      order.ShipEmail,
			Street:     order.ShipStreet,
			City:       order.ShipCity,
			PostalCode: order.ShipPostalCode,
			Country:    order.ShipCountry,
			Phone:      order.ShipPhone,
		},
		Items:          make([]OrderItemDTO, 0, len(order.Items)),
		SubtotalCents:  order.SubtotalCents,
		ShippingCents:  order.ShippingCents,
		TaxCents:       order.TaxCents,
		TotalCents:     order.TotalCents,
		Status:         order.Status,
		PaymentStatus:  order.PaymentStatus,
		PaymentMethod:  order.PaymentMethod,
		TrackingNumber: order.TrackingNumber,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, OrderItemDTO{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductSKU:   item.ProductSKU,
			ProductImage: item.ProductImage,
			Color:        item.Color,
			Quantity:     item.Quantity,
			PriceCents:   item.PriceCents,
			LineTotal:    item.PriceCents * money.Cents(item.Quantity),
		})
	}
	return detail
}
