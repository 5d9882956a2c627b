package payments

import (
	"context"
	"fmt"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
)

// Router dispatches charges to the gateway owning the payment method.
// Card traffic goes to the card gateway, everything else settles offline.
type Router struct {
	card    Gateway
	offline Gateway
}

// NewRouter builds the method dispatch table. The card gateway may be
// nil when no card processor is configured, card charges then fail with
// a validation error instead of a nil dereference.
func NewRouter(card Gateway, offline Gateway) (*Router, error) {
	if offline == nil {
		return nil, fmt.Errorf("offline gateway required")
	}
	return &Router{card: card, offline: offline}, nil
}

func (r *Router) Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	switch input.Method {
	case enums.PaymentMethodCard:
		if r.card == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card payments are not available")
		}
		return r.card.Charge(ctx, input)
	case enums.PaymentMethodCashOnDelivery, enums.PaymentMethodBankTransfer:
		return r.offline.Charge(ctx, input)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown payment method %q", input.Method))
	}
}
