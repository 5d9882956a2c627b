package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
)

// GormStore persists carts for signed-in customers. The owner key is the
// user ID; one cart row per user.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore builds a database-backed cart store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, owner string) (*Cart, error) {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return nil, err
	}

	var row models.Cart
	err = s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "user_id = ?", userID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Cart{}, nil
		}
		return nil, err
	}

	cart := &Cart{Lines: make([]Line, 0, len(row.Items))}
	for _, item := range row.Items {
		cart.Lines = append(cart.Lines, Line{
			ProductID:    item.ProductID,
			Color:        item.Color,
			Quantity:     item.Quantity,
			PriceCents:   item.PriceCents,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
		})
	}
	cart.Normalize()
	return cart, nil
}

func (s *GormStore) Save(ctx context.Context, owner string, cart *Cart) error {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Cart
		err := tx.First(&row, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.Cart{UserID: userID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", row.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Lines) == 0 {
			return nil
		}

		items := make([]models.CartItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			items = append(items, models.CartItem{
				CartID:       row.ID,
				ProductID:    line.ProductID,
				Color:        line.Color,
				Quantity:     line.Quantity,
				PriceCents:   line.PriceCents,
				ProductName:  line.ProductName,
				ProductImage: line.ProductImage,
			})
		}
		return tx.Create(&items).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, owner string) error {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Cart
		err := tx.First(&row, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", row.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}
