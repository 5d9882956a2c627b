package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeaturedProduct binds a homepage slot (1..4) to one product. Rows are
// upserted by position; clearing a slot deletes the row.
type FeaturedProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Position  int       `gorm:"column:position;not null;uniqueIndex"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (f *FeaturedProduct) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
