package featured

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dkellner/audiohaus-backend/internal/catalog"
	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

func openFeaturedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductImage{}, &models.ProductColor{},
		&models.FeaturedProduct{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func newFeaturedTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedFeaturedProduct(t *testing.T, conn *gorm.DB, name string) *models.Product {
	t.Helper()
	price := money.Cents(22500)
	product := &models.Product{
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       name,
		Slug:       "slug-" + uuid.NewString()[:8],
		Brand:      "KEF",
		PriceCents: &price,
		StockCount: 3,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestListReturnsAllFourSlots(t *testing.T) {
	conn := openFeaturedTestDB(t)
	svc := newFeaturedTestService(t, conn)

	slots, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	for i, slot := range slots {
		if slot.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, slot.Position)
		}
		if slot.Product != nil {
			t.Fatalf("expected empty slot %d", slot.Position)
		}
	}
}

func TestSetAssignsAndReplacesSlot(t *testing.T) {
	conn := openFeaturedTestDB(t)
	svc := newFeaturedTestService(t, conn)
	ctx := context.Background()

	first := seedFeaturedProduct(t, conn, "KEF LS50 Meta")
	second := seedFeaturedProduct(t, conn, "KEF LSX II")

	slots, err := svc.Set(ctx, 2, &first.ID)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if slots[1].Product == nil || slots[1].Product.ID != first.ID {
		t.Fatalf("expected slot 2 assigned, got %+v", slots[1])
	}

	// Re-assigning the same position replaces, never duplicates.
	slots, err = svc.Set(ctx, 2, &second.ID)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if slots[1].Product == nil || slots[1].Product.ID != second.ID {
		t.Fatalf("expected slot 2 replaced, got %+v", slots[1])
	}

	var total int64
	if err := conn.Model(&models.FeaturedProduct{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected a single slot row, got %d", total)
	}
}

func TestSetNilClearsSlot(t *testing.T) {
	conn := openFeaturedTestDB(t)
	svc := newFeaturedTestService(t, conn)
	ctx := context.Background()

	product := seedFeaturedProduct(t, conn, "KEF LS50 Meta")
	if _, err := svc.Set(ctx, 1, &product.ID); err != nil {
		t.Fatalf("set: %v", err)
	}

	slots, err := svc.Set(ctx, 1, nil)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if slots[0].Product != nil {
		t.Fatal("expected slot 1 cleared")
	}

	// Clearing an already empty slot succeeds.
	if _, err := svc.Set(ctx, 1, nil); err != nil {
		t.Fatalf("clear empty: %v", err)
	}
}

func TestSetRejectsBadPositionAndMissingProduct(t *testing.T) {
	conn := openFeaturedTestDB(t)
	svc := newFeaturedTestService(t, conn)
	ctx := context.Background()

	product := seedFeaturedProduct(t, conn, "KEF LS50 Meta")

	for _, position := range []int{0, 5, -1} {
		_, err := svc.Set(ctx, position, &product.ID)
		if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("position %d: expected validation error, got %v", position, err)
		}
	}

	missing := uuid.New()
	_, err := svc.Set(ctx, 1, &missing)
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSameProductMayOccupyTwoSlots(t *testing.T) {
	conn := openFeaturedTestDB(t)
	svc := newFeaturedTestService(t, conn)
	ctx := context.Background()

	product := seedFeaturedProduct(t, conn, "KEF LS50 Meta")
	if _, err := svc.Set(ctx, 1, &product.ID); err != nil {
		t.Fatalf("slot 1: %v", err)
	}
	slots, err := svc.Set(ctx, 3, &product.ID)
	if err != nil {
		t.Fatalf("slot 3: %v", err)
	}
	if slots[0].Product == nil || slots[2].Product == nil {
		t.Fatal("expected the product in both slots")
	}
}
