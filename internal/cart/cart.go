package cart

import (
	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/pkg/money"
)

// Line is one prospective purchase. A cart never holds two lines for the
// same (product, color) pair; adding again increments the quantity.
type Line struct {
	ProductID    uuid.UUID    `json:"product_id"`
	Color        string       `json:"color,omitempty"`
	Quantity     int          `json:"quantity"`
	PriceCents   money.Cents  `json:"price_cents"`
	ProductName  string       `json:"product_name"`
	ProductImage *string      `json:"product_image,omitempty"`
	LineTotal    money.Cents  `json:"line_total_cents"`
}

// Cart aggregates the working set plus derived totals. Totals here are
// informational; checkout reprices every line from the catalog.
type Cart struct {
	Lines         []Line      `json:"lines"`
	ItemCount     int         `json:"item_count"`
	SubtotalCents money.Cents `json:"subtotal_cents"`
}

// Normalize recomputes the derived fields from the lines.
func (c *Cart) Normalize() {
	c.ItemCount = 0
	c.SubtotalCents = 0
	for i := range c.Lines {
		line := &c.Lines[i]
		line.LineTotal = line.PriceCents * money.Cents(line.Quantity)
		c.ItemCount += line.Quantity
		c.SubtotalCents += line.LineTotal
	}
}

// findLine returns the index of the line for (productID, color), or -1.
func (c *Cart) findLine(productID uuid.UUID, color string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Color == color {
			return i
		}
	}
	return -1
}

func (c *Cart) removeLine(idx int) {
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}
