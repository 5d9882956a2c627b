package featured

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/internal/catalog"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
)

// Homepage slots run 1 through 4.
const (
	MinPosition = 1
	MaxPosition = 4
)

// Slot is one homepage position. Product is nil when the slot is empty.
type Slot struct {
	Position int                     `json:"position"`
	Product  *catalog.ProductSummary `json:"product,omitempty"`
}

// Service manages the homepage featured slots.
type Service interface {
	List(ctx context.Context) ([]Slot, error)
	Set(ctx context.Context, position int, productID *uuid.UUID) ([]Slot, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
}

// NewService constructs the featured slot service.
func NewService(repo *Repository, catalogRepo *catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("featured repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalogRepo: catalogRepo}, nil
}

// List always returns all four slots so the storefront can render fixed
// placements, empty slots included.
func (s *service) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured slots")
	}

	slots := make([]Slot, 0, MaxPosition)
	byPosition := map[int]*catalog.ProductSummary{}
	for i := range rows {
		if rows[i].Product == nil {
			continue
		}
		summary := catalog.NewProductSummary(rows[i].Product)
		byPosition[rows[i].Position] = &summary
	}
	for position := MinPosition; position <= MaxPosition; position++ {
		slots = append(slots, Slot{Position: position, Product: byPosition[position]})
	}
	return slots, nil
}

// Set assigns the product to the slot, or clears the slot when productID
// is nil, and returns the updated board.
func (s *service) Set(ctx context.Context, position int, productID *uuid.UUID) ([]Slot, error) {
	if position < MinPosition || position > MaxPosition {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("position must be between %d and %d", MinPosition, MaxPosition))
	}

	if productID == nil {
		if err := s.repo.DeleteByPosition(ctx, position); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear featured slot")
		}
		return s.List(ctx)
	}

	if _, err := s.catalogRepo.FindByID(ctx, *productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Upsert(ctx, position, *productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign featured slot")
	}
	return s.List(ctx)
}
