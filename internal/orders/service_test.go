package orders

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dkellner/audiohaus-backend/pkg/db"
	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/pagination"
)

func openOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
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

// recordingRestocker captures restock calls instead of touching a table.
type recordingRestocker struct {
	mu    sync.Mutex
	calls map[uuid.UUID]int
}

func newRecordingRestocker() *recordingRestocker {
	return &recordingRestocker{calls: map[uuid.UUID]int{}}
}

func (r *recordingRestocker) WithTx(*gorm.DB) StockRestocker { return r }

func (r *recordingRestocker) Restock(_ context.Context, productID uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[productID] += qty
	return nil
}

func mustCreateTestOrder(t *testing.T, conn *gorm.DB, number string, status enums.OrderStatus) *models.Order {
	t.Helper()
	productID := uuid.New()
	order := &models.Order{
		OrderNumber:    number,
		ShipFirstName:  "Nina",
		ShipLastName:   "Berg",
		ShipEmail:      "nina@example.com",
		ShipStreet:     "Hauptstr. 1",
		ShipCity:       "Berlin",
		ShipPostalCode: "10115",
		ShipPhone:      "+4915112345678",
		SubtotalCents:  45000,
		ShippingCents:  4900,
		TaxCents:       0,
		TotalCents:     49900,
		Status:         status,
		PaymentStatus:  enums.PaymentStatusPending,
		PaymentMethod:  enums.PaymentMethodCard,
		Items: []models.OrderItem{
			{ProductID: &productID, ProductName: "KEF LS50 Meta", ProductSKU: "KEF-LS50", Quantity: 2, PriceCents: 22500},
		},
	}
	if err := conn.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func newOrderTestService(t *testing.T, conn *gorm.DB, restocker StockRestocker) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), restocker, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUpdateOrderValidTransition(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	order := mustCreateTestOrder(t, conn, "AH00000001", enums.OrderStatusPending)

	confirmed := enums.OrderStatusConfirmed
	detail, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &confirmed})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if detail.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", detail.Status)
	}

	shipped := enums.OrderStatusShipped
	tracking := "DHL-123456"
	detail, err = svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &shipped, TrackingNumber: &tracking})
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if detail.TrackingNumber == nil || *detail.TrackingNumber != tracking {
		t.Fatal("expected tracking number set")
	}
}

func TestUpdateOrderInvalidTransitionRejected(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	order := mustCreateTestOrder(t, conn, "AH00000002", enums.OrderStatusPending)

	delivered := enums.OrderStatusDelivered
	_, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &delivered})
	if err == nil {
		t.Fatal("expected transition rejection")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %s", pkgerrors.As(err).Code())
	}

	// The row must be untouched after a rejected transition.
	detail, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if detail.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", detail.Status)
	}
}

func TestUpdateOrderTerminalStateRejectsChanges(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	order := mustCreateTestOrder(t, conn, "AH00000003", enums.OrderStatusDelivered)

	cancelled := enums.OrderStatusCancelled
	_, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &cancelled})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelRestocksItems(t *testing.T) {
	conn := openOrderTestDB(t)
	restocker := newRecordingRestocker()
	svc := newOrderTestService(t, conn, restocker)
	ctx := context.Background()

	order := mustCreateTestOrder(t, conn, "AH00000004", enums.OrderStatusPending)
	productID := *order.Items[0].ProductID

	cancelled := enums.OrderStatusCancelled
	if _, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if restocker.calls[productID] != 2 {
		t.Fatalf("expected 2 units restocked, got %d", restocker.calls[productID])
	}
}

func TestUpdatePaymentStatusTransitions(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	order := mustCreateTestOrder(t, conn, "AH00000005", enums.OrderStatusPending)

	paid := enums.PaymentStatusPaid
	detail, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{PaymentStatus: &paid})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if detail.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", detail.PaymentStatus)
	}

	failed := enums.PaymentStatusFailed
	_, err = svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{PaymentStatus: &failed})
	if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("paid is terminal, got %v", err)
	}
}

func TestListOrdersFiltersAndSearch(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	mustCreateTestOrder(t, conn, "AH00000010", enums.OrderStatusPending)
	mustCreateTestOrder(t, conn, "AH00000011", enums.OrderStatusShipped)
	mustCreateTestOrder(t, conn, "AH00000012", enums.OrderStatusShipped)

	shipped := enums.OrderStatusShipped
	list, err := svc.ListOrders(ctx, pagination.Params{}, OrderFilters{Status: &shipped})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Meta.Total != 2 {
		t.Fatalf("expected 2 shipped orders, got %d", list.Meta.Total)
	}

	byNumber, err := svc.ListOrders(ctx, pagination.Params{}, OrderFilters{Query: "ah00000010"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if byNumber.Meta.Total != 1 || byNumber.Orders[0].OrderNumber != "AH00000010" {
		t.Fatal("expected search hit by order number")
	}

	byName, err := svc.ListOrders(ctx, pagination.Params{}, OrderFilters{Query: "nina berg"})
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if byName.Meta.Total != 3 {
		t.Fatalf("expected all orders for customer name, got %d", byName.Meta.Total)
	}

	future := time.Now().Add(time.Hour)
	none, err := svc.ListOrders(ctx, pagination.Params{}, OrderFilters{DateFrom: &future})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if none.Meta.Total != 0 {
		t.Fatalf("expected no future orders, got %d", none.Meta.Total)
	}
}

func TestListUserOrdersScopedToUser(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	userID := uuid.New()
	mine := mustCreateTestOrder(t, conn, "AH00000020", enums.OrderStatusPending)
	if err := conn.Model(&models.Order{}).Where("id = ?", mine.ID).Update("user_id", userID).Error; err != nil {
		t.Fatalf("attach user: %v", err)
	}
	mustCreateTestOrder(t, conn, "AH00000021", enums.OrderStatusPending)

	list, err := svc.ListUserOrders(ctx, userID, pagination.Params{})
	if err != nil {
		t.Fatalf("list user orders: %v", err)
	}
	if list.Meta.Total != 1 || list.Orders[0].OrderNumber != "AH00000020" {
		t.Fatalf("expected only the user's order, got %+v", list.Orders)
	}
}

func TestGetByOrderNumber(t *testing.T) {
	conn := openOrderTestDB(t)
	svc := newOrderTestService(t, conn, newRecordingRestocker())
	ctx := context.Background()

	mustCreateTestOrder(t, conn, "AH00000030", enums.OrderStatusPending)

	detail, err := svc.GetByOrderNumber(ctx, "AH00000030")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].LineTotal != 45000 {
		t.Fatalf("unexpected items %+v", detail.Items)
	}

	if _, err := svc.GetByOrderNumber(ctx, "AH99999999"); err == nil {
		t.Fatal("expected not found")
	}
}
