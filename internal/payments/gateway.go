package payments

import (
	"context"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// ChargeInput carries everything a gateway needs to settle one order.
type ChargeInput struct {
	OrderNumber    string
	AmountCents    money.Cents
	Currency       string
	Method         enums.PaymentMethod
	SourceID       string
	IdempotencyKey string
}

// ChargeResult reports how the charge settled. ProviderRef is empty for
// offline methods.
type ChargeResult struct {
	Status      enums.PaymentStatus
	ProviderRef string
}

// Gateway settles the payment for a placed order.
type Gateway interface {
	Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error)
}
