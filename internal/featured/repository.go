package featured

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
)

// Repository defines persistence operations for the homepage slots.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all occupied slots ordered by position, with the product
// and its gallery loaded.
func (r *Repository) List(ctx context.Context) ([]models.FeaturedProduct, error) {
	var rows []models.FeaturedProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Product.Category").
		Order("position ASC").
		Find(&rows).
		Error
	return rows, err
}

// Upsert points the slot at the product, creating the row when the slot
// is empty.
func (r *Repository) Upsert(ctx context.Context, position int, productID uuid.UUID) error {
	var existing models.FeaturedProduct
	err := r.db.WithContext(ctx).First(&existing, "position = ?", position).Error
	switch {
	case err == nil:
		return r.db.WithContext(ctx).
			Model(&models.FeaturedProduct{}).
			Where("id = ?", existing.ID).
			Update("product_id", productID).
			Error
	case err == gorm.ErrRecordNotFound:
		row := models.FeaturedProduct{Position: position, ProductID: productID}
		return r.db.WithContext(ctx).Create(&row).Error
	default:
		return err
	}
}

// DeleteByPosition clears the slot. Clearing an empty slot is a no-op.
func (r *Repository) DeleteByPosition(ctx context.Context, position int) error {
	return r.db.WithContext(ctx).
		Where("position = ?", position).
		Delete(&models.FeaturedProduct{}).
		Error
}
