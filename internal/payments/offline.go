package payments

import (
	"context"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
)

// OfflineGateway handles methods settled outside the platform, cash on
// delivery and bank transfer. Orders stay pending until an admin marks
// them paid.
type OfflineGateway struct{}

// NewOfflineGateway returns the offline settlement gateway.
func NewOfflineGateway() *OfflineGateway {
	return &OfflineGateway{}
}

func (g *OfflineGateway) Charge(_ context.Context, input ChargeInput) (*ChargeResult, error) {
	switch input.Method {
	case enums.PaymentMethodCashOnDelivery, enums.PaymentMethodBankTransfer:
		return &ChargeResult{Status: enums.PaymentStatusPending}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"payment method not supported for offline settlement")
	}
}
