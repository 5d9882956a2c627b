package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkellner/audiohaus-backend/pkg/config"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

func defaultEngine() *Engine {
	return NewEngine(config.PricingConfig{
		FreeShippingThresholdCents: 50000,
		FlatShippingFeeCents:       4900,
		TaxRateBasisPoints:         0,
	})
}

func TestQuoteBelowThresholdChargesFlatFee(t *testing.T) {
	engine := defaultEngine()

	quote, err := engine.Quote([]Line{
		{UnitPriceCents: 45000, Quantity: 1},
	})
	require.NoError(t, err)

	require.Equal(t, money.Cents(45000), quote.SubtotalCents)
	require.Equal(t, money.Cents(4900), quote.ShippingCents)
	require.Equal(t, money.Cents(0), quote.TaxCents)
	require.Equal(t, money.Cents(49900), quote.TotalCents)
	require.False(t, quote.FreeShipping)
}

func TestQuoteAtThresholdShipsFree(t *testing.T) {
	engine := defaultEngine()

	quote, err := engine.Quote([]Line{
		{UnitPriceCents: 25000, Quantity: 2},
	})
	require.NoError(t, err)

	require.Equal(t, money.Cents(50000), quote.SubtotalCents)
	require.Equal(t, money.Cents(0), quote.ShippingCents)
	require.Equal(t, money.Cents(50000), quote.TotalCents)
	require.True(t, quote.FreeShipping)
}

func TestQuoteOneCentBelowThresholdChargesFee(t *testing.T) {
	engine := defaultEngine()

	quote, err := engine.Quote([]Line{
		{UnitPriceCents: 49999, Quantity: 1},
	})
	require.NoError(t, err)

	require.Equal(t, money.Cents(4900), quote.ShippingCents)
	require.Equal(t, money.Cents(54899), quote.TotalCents)
}

func TestQuoteEmptyCartHasNoFee(t *testing.T) {
	engine := defaultEngine()

	quote, err := engine.Quote(nil)
	require.NoError(t, err)

	require.Equal(t, money.Cents(0), quote.SubtotalCents)
	require.Equal(t, money.Cents(0), quote.ShippingCents)
	require.Equal(t, money.Cents(0), quote.TotalCents)
}

func TestQuoteWithTaxRate(t *testing.T) {
	engine := NewEngine(config.PricingConfig{
		FreeShippingThresholdCents: 50000,
		FlatShippingFeeCents:       4900,
		TaxRateBasisPoints:         1900,
	})

	quote, err := engine.Quote([]Line{
		{UnitPriceCents: 10000, Quantity: 2},
	})
	require.NoError(t, err)

	require.Equal(t, money.Cents(20000), quote.SubtotalCents)
	require.Equal(t, money.Cents(3800), quote.TaxCents)
	require.Equal(t, money.Cents(20000+4900+3800), quote.TotalCents)
}

func TestQuoteIsDeterministic(t *testing.T) {
	engine := defaultEngine()
	lines := []Line{
		{UnitPriceCents: 12999, Quantity: 3},
		{UnitPriceCents: 89900, Quantity: 1},
	}

	first, err := engine.Quote(lines)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := engine.Quote(lines)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestQuoteRejectsInvalidLines(t *testing.T) {
	engine := defaultEngine()

	_, err := engine.Quote([]Line{{UnitPriceCents: 1000, Quantity: 0}})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = engine.Quote([]Line{{UnitPriceCents: -1, Quantity: 1}})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestQuoteTotalAlwaysSumsComponents(t *testing.T) {
	engine := NewEngine(config.PricingConfig{
		FreeShippingThresholdCents: 50000,
		FlatShippingFeeCents:       4900,
		TaxRateBasisPoints:         750,
	})

	for _, subtotal := range []money.Cents{1, 4900, 49999, 50000, 50001, 250000} {
		quote, err := engine.Quote([]Line{{UnitPriceCents: subtotal, Quantity: 1}})
		require.NoError(t, err)
		require.Equal(t, quote.SubtotalCents+quote.ShippingCents+quote.TaxCents, quote.TotalCents)
	}
}
