package checkout

import (
	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
)

// ItemInput is one requested line. Prices are never accepted from the
// client, the catalog is the only price source.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Color     *string
}

// ShippingInput is the delivery address captured at placement.
type ShippingInput struct {
	FirstName  string
	LastName   string
	Email      string
	Street     string
	City       string
	PostalCode string
	Country    *string
	Phone      string
}

// PlaceOrderInput is the complete checkout request. UserID is nil for
// guest checkout.
type PlaceOrderInput struct {
	UserID          *uuid.UUID
	Items           []ItemInput
	Shipping        ShippingInput
	PaymentMethod   enums.PaymentMethod
	PaymentSourceID string
	Notes           *string
}
