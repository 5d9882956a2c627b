package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer minor units. All arithmetic on order
// totals happens on this type; two-decimal formatting is a boundary concern.
type Cents int64

// Decimal returns the amount as a major-unit decimal (e.g. 4900 -> 49.00).
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with exactly two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON serializes the amount as a plain unquoted number with two
// decimal places, matching the wire contract for price fields.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts either a plain number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := FromDecimalString(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromDecimalString parses a major-unit decimal string into cents. Values
// with more than two fractional digits are rejected rather than rounded.
func FromDecimalString(value string) (Cents, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a major-unit decimal into cents.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return Cents(shifted.IntPart()), nil
}

// ApplyBasisPoints returns amount * bp / 10000 rounded half away from zero
// to the nearest cent. Used for percentage tax computation.
func ApplyBasisPoints(amount Cents, basisPoints int64) Cents {
	if amount == 0 || basisPoints == 0 {
		return 0
	}
	result := decimal.New(int64(amount), 0).
		Mul(decimal.New(basisPoints, 0)).
		Div(decimal.New(10000, 0)).
		Round(0)
	return Cents(result.IntPart())
}
