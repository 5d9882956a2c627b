package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkellner/audiohaus-backend/internal/catalog"
	"github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/internal/payments"
	"github.com/dkellner/audiohaus-backend/internal/pricing"
	"github.com/dkellner/audiohaus-backend/pkg/config"
	"github.com/dkellner/audiohaus-backend/pkg/db"
	"github.com/dkellner/audiohaus-backend/pkg/db/models"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/metrics"
)

// Service places orders. Placement is atomic: either every line's stock
// is decremented and the order row exists, or nothing changed.
type Service interface {
	Quote(ctx context.Context, items []ItemInput) (*pricing.Quote, error)
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDetail, error)
}

type service struct {
	catalogRepo *catalog.Repository
	ordersRepo  *orders.Repository
	engine      *pricing.Engine
	gateway     payments.Gateway
	dbClient    *db.Client
	cfg         config.CheckoutConfig
	checkout    *metrics.CheckoutMetrics
	logg        *logger.Logger
	newNumber   numberSource
}

// numberSource produces candidate public order numbers for a prefix.
type numberSource func(prefix string) (string, error)

// NewService wires the checkout pipeline.
func NewService(
	catalogRepo *catalog.Repository,
	ordersRepo *orders.Repository,
	engine *pricing.Engine,
	gateway payments.Gateway,
	dbClient *db.Client,
	cfg config.CheckoutConfig,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.OrderNumberMaxAttempts <= 0 {
		cfg.OrderNumberMaxAttempts = 5
	}
	return &service{
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		engine:      engine,
		gateway:     gateway,
		dbClient:    dbClient,
		cfg:         cfg,
		checkout:    checkoutMetrics,
		logg:        logg,
		newNumber:   newOrderNumber,
	}, nil
}

// resolvedLine pairs a requested line with its catalog row and the
// server-side price in effect at placement.
type resolvedLine struct {
	product *models.Product
	input   ItemInput
}

// Quote prices the requested items without placing anything.
func (s *service) Quote(ctx context.Context, items []ItemInput) (*pricing.Quote, error) {
	resolved, err := s.resolveItems(ctx, items)
	if err != nil {
		return nil, err
	}
	return s.engine.Quote(pricingLines(resolved))
}

// PlaceOrder runs the full checkout: resolve products, reprice server
// side, decrement stock and insert the order in one transaction, then
// settle the payment.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDetail, error) {
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown payment method %q", input.PaymentMethod))
	}

	resolved, err := s.resolveItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	quote, err := s.engine.Quote(pricingLines(resolved))
	if err != nil {
		return nil, err
	}

	order, err := s.createOrder(ctx, input, resolved, quote)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "order placed")
	s.checkout.IncOrderPlaced(input.PaymentMethod.String(), int64(quote.TotalCents))

	if err := s.settlePayment(ctx, order, input); err != nil {
		return nil, err
	}

	final, err := s.ordersRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload placed order")
	}
	return orders.NewOrderDetail(final), nil
}

// resolveItems loads the catalog rows for the requested lines and
// rejects anything that cannot be sold.
func (s *service) resolveItems(ctx context.Context, items []ItemInput) ([]resolvedLine, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		ids = append(ids, item.ProductID)
	}

	rows, err := s.catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	resolved := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Unresolvable lines reject the whole order as a bad request.
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s not found", item.ProductID))
		}
		if product.ContactOnly || product.PriceCents == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s is available on request only and cannot be ordered online", product.Name))
		}
		normalized, err := normalizeColor(product, item.Color)
		if err != nil {
			return nil, err
		}
		item.Color = normalized
		resolved = append(resolved, resolvedLine{product: product, input: item})
	}
	return resolved, nil
}

// createOrder decrements stock and inserts the order atomically, retrying
// with a fresh number when the generated one collides.
func (s *service) createOrder(ctx context.Context, input PlaceOrderInput, resolved []resolvedLine, quote *pricing.Quote) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.OrderNumberMaxAttempts; attempt++ {
		number, err := s.newNumber(s.cfg.OrderNumberPrefix)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order number generation failed")
		}

		order := buildOrder(input, resolved, quote, number)
		err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txCatalog := s.catalogRepo.WithTx(tx)
			for _, line := range resolved {
				ok, err := txCatalog.DecrementStock(ctx, line.product.ID, line.input.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
				}
				if !ok {
					s.checkout.IncStockConflict()
					return pkgerrors.New(pkgerrors.CodeOutOfStock,
						fmt.Sprintf("%s is no longer available in the requested quantity", line.product.Name))
				}
			}
			if _, err := s.ordersRepo.WithTx(tx).CreateOrder(ctx, order); err != nil {
				return err
			}
			return nil
		})
		if err == nil {
			return order, nil
		}
		// The generated number is the only unique column written here,
		// so any unique violation means a number collision.
		if db.IsUniqueViolation(err, "") {
			lastErr = err
			continue
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "could not allocate a unique order number")
}

// settlePayment charges the gateway and records the outcome. Offline
// methods stay pending, failed card charges are recorded before the
// error is surfaced.
func (s *service) settlePayment(ctx context.Context, order *models.Order, input PlaceOrderInput) error {
	result, err := s.gateway.Charge(ctx, payments.ChargeInput{
		OrderNumber:    order.OrderNumber,
		AmountCents:    order.TotalCents,
		Currency:       "EUR",
		Method:         input.PaymentMethod,
		SourceID:       input.PaymentSourceID,
		IdempotencyKey: order.ID.String(),
	})
	if err != nil {
		if updateErr := s.ordersRepo.UpdateOrder(ctx, order.ID, map[string]any{
			"payment_status": enums.PaymentStatusFailed,
		}); updateErr != nil {
			s.logg.Error(ctx, "recording failed payment", updateErr)
		}
		return err
	}

	if result.Status == order.PaymentStatus {
		return nil
	}
	if err := s.ordersRepo.UpdateOrder(ctx, order.ID, map[string]any{
		"payment_status": result.Status,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record payment status")
	}
	return nil
}

func buildOrder(input PlaceOrderInput, resolved []resolvedLine, quote *pricing.Quote, number string) *models.Order {
	order := &models.Order{
		OrderNumber:    number,
		UserID:         input.UserID,
		ShipFirstName:  strings.TrimSpace(input.Shipping.FirstName),
		ShipLastName:   strings.TrimSpace(input.Shipping.LastName),
		ShipEmail:      strings.TrimSpace(input.Shipping.Email),
		ShipStreet:     strings.TrimSpace(input.Shipping.Street),
		ShipCity:       strings.TrimSpace(input.Shipping.City),
		ShipPostalCode: strings.TrimSpace(input.Shipping.PostalCode),
		ShipCountry:    input.Shipping.Country,
		ShipPhone:      strings.TrimSpace(input.Shipping.Phone),
		SubtotalCents:  quote.SubtotalCents,
		ShippingCents:  quote.ShippingCents,
		TaxCents:       quote.TaxCents,
		TotalCents:     quote.TotalCents,
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
	}
	if input.UserID == nil {
		email := strings.TrimSpace(input.Shipping.Email)
		phone := strings.TrimSpace(input.Shipping.Phone)
		order.GuestEmail = &email
		order.GuestPhone = &phone
	}

	for _, line := range resolved {
		productID := line.product.ID
		item := models.OrderItem{
			ProductID:   &productID,
			ProductName: line.product.Name,
			ProductSKU:  line.product.SKU,
			Color:       line.input.Color,
			Quantity:    line.input.Quantity,
			PriceCents:  *line.product.PriceCents,
		}
		if len(line.product.Images) > 0 {
			url := line.product.Images[0].URL
			item.ProductImage = &url
		}
		order.Items = append(order.Items, item)
	}
	return order
}

func pricingLines(resolved []resolvedLine) []pricing.Line {
	lines := make([]pricing.Line, 0, len(resolved))
	for _, line := range resolved {
		lines = append(lines, pricing.Line{
			UnitPriceCents: *line.product.PriceCents,
			Quantity:       line.input.Quantity,
		})
	}
	return lines
}

// normalizeColor matches the requested color against the product's
// finishes, case insensitively, and returns the canonical name.
func normalizeColor(product *models.Product, color *string) (*string, error) {
	if color == nil || strings.TrimSpace(*color) == "" {
		return nil, nil
	}
	requested := strings.TrimSpace(*color)
	for _, candidate := range product.Colors {
		if strings.EqualFold(candidate.Name, requested) {
			name := candidate.Name
			return &name, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation,
		fmt.Sprintf("%s is not available in %q", product.Name, requested))
}

func validateShipping(shipping ShippingInput) error {
	required := map[string]string{
		"first_name":  shipping.FirstName,
		"last_name":   shipping.LastName,
		"email":       shipping.Email,
		"street":      shipping.Street,
		"city":        shipping.City,
		"postal_code": shipping.PostalCode,
		"phone":       shipping.Phone,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("shipping %s is required", field))
		}
	}
	return nil
}
