package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/internal/orders"
)

// Restocker adapts the catalog repository to the order cancellation flow.
type Restocker struct {
	repo *Repository
}

// NewRestocker wraps the repository for use by the order service.
func NewRestocker(repo *Repository) *Restocker {
	return &Restocker{repo: repo}
}

func (r *Restocker) WithTx(tx *gorm.DB) orders.StockRestocker {
	return &Restocker{repo: r.repo.WithTx(tx)}
}

func (r *Restocker) Restock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.repo.IncrementStock(ctx, productID, qty)
}
