package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCentsMarshalsAsPlainNumber(t *testing.T) {
	payload, err := json.Marshal(struct {
		Price Cents `json:"price"`
	}{Price: 249900})
	require.NoError(t, err)
	require.JSONEq(t, `{"price":2499.00}`, string(payload))
}

func TestFromDecimalString(t *testing.T) {
	cases := map[string]Cents{
		"0":       0,
		"49":      4900,
		"499.00":  49900,
		"2499.95": 249995,
	}
	for input, want := range cases {
		got, err := FromDecimalString(input)
		require.NoError(t, err, input)
		require.Equal(t, want, got, input)
	}
}

func TestFromDecimalStringRejectsSubCent(t *testing.T) {
	_, err := FromDecimalString("10.005")
	require.Error(t, err)
}

func TestUnmarshalAcceptsQuotedAndBare(t *testing.T) {
	var c Cents
	require.NoError(t, json.Unmarshal([]byte(`"129.99"`), &c))
	require.Equal(t, Cents(12999), c)
	require.NoError(t, json.Unmarshal([]byte(`129.99`), &c))
	require.Equal(t, Cents(12999), c)
}

func TestApplyBasisPoints(t *testing.T) {
	// 18% of 450.00 is 81.00
	require.Equal(t, Cents(8100), ApplyBasisPoints(45000, 1800))
	// rounding: 18% of 0.03 is 0.0054 -> rounds to 0.01
	require.Equal(t, Cents(1), ApplyBasisPoints(3, 1800))
	require.Equal(t, Cents(0), ApplyBasisPoints(45000, 0))
}
