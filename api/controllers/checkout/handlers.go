package checkout

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/api/middleware"
	"github.com/dkellner/audiohaus-backend/api/responses"
	"github.com/dkellner/audiohaus-backend/api/validators"
	checkoutsvc "github.com/dkellner/audiohaus-backend/internal/checkout"
	ordersvc "github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
)

type itemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Color     *string   `json:"color,omitempty"`
}

type shippingRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Street     string  `json:"street" validate:"required"`
	City       string  `json:"city" validate:"required"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    *string `json:"country,omitempty"`
	Phone      string  `json:"phone" validate:"required"`
}

type quoteRequest struct {
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
}

type placeOrderRequest struct {
	Items           []itemRequest   `json:"items" validate:"required,min=1,dive"`
	Shipping        shippingRequest `json:"shipping" validate:"required"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
	PaymentSourceID string          `json:"payment_source_id,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

// Quote prices a prospective order without placing it.
func Quote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), toItemInputs(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// PlaceOrder runs the checkout for guests and authenticated customers.
func PlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := checkoutsvc.PlaceOrderInput{
			Items: toItemInputs(payload.Items),
			Shipping: checkoutsvc.ShippingInput{
				FirstName:  payload.Shipping.FirstName,
				LastName:   payload.Shipping.LastName,
				Email:      payload.Shipping.Email,
				Street:     payload.Shipping.Street,
				City:       payload.Shipping.City,
				PostalCode: payload.Shipping.PostalCode,
				Country:    payload.Shipping.Country,
				Phone:      payload.Shipping.Phone,
			},
			PaymentMethod:   method,
			PaymentSourceID: payload.PaymentSourceID,
			Notes:           payload.Notes,
		}
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if userID, parseErr := uuid.Parse(raw); parseErr == nil {
				input.UserID = &userID
			}
		}

		detail, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// TrackOrder looks an order up by its public number for guest tracking.
func TrackOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}

		detail, err := svc.GetByOrderNumber(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func toItemInputs(items []itemRequest) []checkoutsvc.ItemInput {
	inputs := make([]checkoutsvc.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, checkoutsvc.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Color:     item.Color,
		})
	}
	return inputs
}
