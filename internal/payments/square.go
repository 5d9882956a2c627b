package payments

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/square/square-go-sdk"

	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/square"
)

// squarePayer is the slice of the Square client the gateway needs.
type squarePayer interface {
	CreatePayment(ctx context.Context, params square.PaymentCreateParams) (*sq.Payment, error)
	LocationID() string
}

var _ squarePayer = (*square.Client)(nil)

// SquareGateway settles card payments through Square.
type SquareGateway struct {
	client squarePayer
	logg   *logger.Logger
}

// NewSquareGateway wraps the Square client for card charges.
func NewSquareGateway(client squarePayer, logg *logger.Logger) (*SquareGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("square client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &SquareGateway{client: client, logg: logg}, nil
}

func (g *SquareGateway) Charge(ctx context.Context, input ChargeInput) (*ChargeResult, error) {
	if input.Method != enums.PaymentMethodCard {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "square gateway only settles card payments")
	}
	if strings.TrimSpace(input.SourceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required for card payments")
	}

	payment, err := g.client.CreatePayment(ctx, square.PaymentCreateParams{
		AmountCents:    int64(input.AmountCents),
		Currency:       input.Currency,
		LocationID:     g.client.LocationID(),
		SourceID:       input.SourceID,
		IdempotencyKey: input.IdempotencyKey,
		Note:           fmt.Sprintf("order %s", input.OrderNumber),
		ReferenceID:    input.OrderNumber,
	})
	if err != nil {
		return nil, err
	}

	result := &ChargeResult{Status: paymentStatusFromSquare(payment)}
	if payment != nil && payment.GetID() != nil {
		result.ProviderRef = *payment.GetID()
	}
	g.logg.Info(g.logg.WithOrderNumber(ctx, input.OrderNumber), "card payment settled")
	return result, nil
}

func paymentStatusFromSquare(payment *sq.Payment) enums.PaymentStatus {
	if payment == nil || payment.GetStatus() == nil {
		return enums.PaymentStatusPending
	}
	switch strings.ToUpper(*payment.GetStatus()) {
	case "COMPLETED", "APPROVED":
		return enums.PaymentStatusPaid
	case "FAILED", "CANCELED":
		return enums.PaymentStatusFailed
	default:
		return enums.PaymentStatusPending
	}
}
