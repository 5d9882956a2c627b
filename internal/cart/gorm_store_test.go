package cart

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

	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

func openCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
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

func TestGormStoreRoundTrip(t *testing.T) {
	store := NewGormStore(openCartTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	image := "https://cdn.example.com/ls50.jpg"
	cart := &Cart{Lines: []Line{
		{ProductID: uuid.New(), Color: "Carbon Black", Quantity: 2, PriceCents: 119900, ProductName: "KEF LS50 Meta", ProductImage: &image},
		{ProductID: uuid.New(), Quantity: 1, PriceCents: 49900, ProductName: "Pro-Ject Debut Carbon"},
	}}
	cart.Normalize()

	if err := store.Save(ctx, owner, cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(loaded.Lines))
	}
	if loaded.SubtotalCents != money.Cents(2*119900+49900) {
		t.Fatalf("unexpected subtotal %d", loaded.SubtotalCents)
	}
	if loaded.Lines[0].ProductImage == nil || *loaded.Lines[0].ProductImage != image {
		t.Fatal("expected image snapshot preserved")
	}
}

func TestGormStoreSaveReplacesLines(t *testing.T) {
	store := NewGormStore(openCartTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	first := &Cart{Lines: []Line{{ProductID: uuid.New(), Quantity: 1, PriceCents: 1000, ProductName: "A"}}}
	if err := store.Save(ctx, owner, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := &Cart{Lines: []Line{{ProductID: uuid.New(), Quantity: 3, PriceCents: 2000, ProductName: "B"}}}
	if err := store.Save(ctx, owner, second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	loaded, err := store.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Lines) != 1 || loaded.Lines[0].ProductName != "B" {
		t.Fatalf("expected replaced cart, got %+v", loaded.Lines)
	}
}

func TestGormStoreLoadMissingReturnsEmpty(t *testing.T) {
	store := NewGormStore(openCartTestDB(t))

	loaded, err := store.Load(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Lines) != 0 {
		t.Fatal("expected empty cart for unknown owner")
	}
}

func TestGormStoreDelete(t *testing.T) {
	store := NewGormStore(openCartTestDB(t))
	ctx := context.Background()
	owner := uuid.NewString()

	cart := &Cart{Lines: []Line{{ProductID: uuid.New(), Quantity: 1, PriceCents: 500, ProductName: "A"}}}
	if err := store.Save(ctx, owner, cart); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}

	loaded, err := store.Load(ctx, owner)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Lines) != 0 {
		t.Fatal("expected cart removed")
	}

	// Deleting a missing cart is a no-op.
	if err := store.Delete(ctx, uuid.NewString()); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
