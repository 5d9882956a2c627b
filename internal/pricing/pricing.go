package pricing

import (
	"github.com/dkellner/audiohaus-backend/pkg/config"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// Line is one priced quantity entering a quote. Unit price comes from the
// catalog at quote time, never from the client.
type Line struct {
	UnitPriceCents money.Cents
	Quantity       int
}

// Quote is the complete monetary breakdown for a prospective order.
// Total is always Subtotal + Shipping + Tax.
type Quote struct {
	SubtotalCents money.Cents `json:"subtotal_cents"`
	ShippingCents money.Cents `json:"shipping_cents"`
	TaxCents      money.Cents `json:"tax_cents"`
	TotalCents    money.Cents `json:"total_cents"`
	FreeShipping  bool        `json:"free_shipping"`
}

// Engine computes quotes under a fixed policy. The same lines always
// produce the same quote.
type Engine struct {
	freeShippingThreshold money.Cents
	flatShippingFee       money.Cents
	taxRateBasisPoints    int64
}

// NewEngine builds a pricing engine from the configured policy.
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{
		freeShippingThreshold: money.Cents(cfg.FreeShippingThresholdCents),
		flatShippingFee:       money.Cents(cfg.FlatShippingFeeCents),
		taxRateBasisPoints:    cfg.TaxRateBasisPoints,
	}
}

// FreeShippingThreshold exposes the configured threshold for storefront display.
func (e *Engine) FreeShippingThreshold() money.Cents {
	return e.freeShippingThreshold
}

// Quote prices the given lines. Lines with non-positive quantity or
// negative unit price are rejected rather than silently skipped.
func (e *Engine) Quote(lines []Line) (*Quote, error) {
	var subtotal money.Cents
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line unit price must not be negative")
		}
		subtotal += line.UnitPriceCents * money.Cents(line.Quantity)
	}

	shipping := e.shippingFor(subtotal)
	tax := money.ApplyBasisPoints(subtotal, e.taxRateBasisPoints)

	return &Quote{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
		FreeShipping:  shipping == 0,
	}, nil
}

// shippingFor applies the flat fee strictly below the threshold. An order
// exactly at the threshold ships free. Empty orders carry no fee.
func (e *Engine) shippingFor(subtotal money.Cents) money.Cents {
	if subtotal == 0 {
		return 0
	}
	if subtotal >= e.freeShippingThreshold {
		return 0
	}
	return e.flatShippingFee
}
