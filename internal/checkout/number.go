package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const orderNumberDigits = 8

var digitCeiling = big.NewInt(1_0000_0000)

// newOrderNumber returns a candidate public order number, an uppercased
// prefix followed by eight random digits. Uniqueness is enforced by the
// database, callers retry on collision.
func newOrderNumber(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, digitCeiling)
	if err != nil {
		return "", fmt.Errorf("generating order number: %w", err)
	}
	return fmt.Sprintf("%s%0*d", strings.ToUpper(strings.TrimSpace(prefix)), orderNumberDigits, n), nil
}
