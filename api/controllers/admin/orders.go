package admin

import (
	"net/http"
	"strings"

	"github.com/dkellner/audiohaus-backend/api/responses"
	"github.com/dkellner/audiohaus-backend/api/validators"
	ordersvc "github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
)

type updateOrderRequest struct {
	Status         *string `json:"status,omitempty"`
	PaymentStatus  *string `json:"payment_status,omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ListOrders serves the back-office order dashboard with filters.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrder serves one order with its item snapshots.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateOrder advances the fulfilment or payment state of an order.
func UpdateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.UpdateOrderInput{
			TrackingNumber: payload.TrackingNumber,
			Notes:          payload.Notes,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseOrderStatus(strings.TrimSpace(*payload.Status))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid order status"))
				return
			}
			input.Status = &status
		}
		if payload.PaymentStatus != nil {
			status, parseErr := enums.ParsePaymentStatus(strings.TrimSpace(*payload.PaymentStatus))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid payment status"))
				return
			}
			input.PaymentStatus = &status
		}

		detail, err := svc.UpdateOrder(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func parseOrderFilters(r *http.Request) (ordersvc.OrderFilters, error) {
	query := strings.TrimSpace(r.URL.Query().Get("search"))
	if query == "" {
		query = strings.TrimSpace(r.URL.Query().Get("q"))
	}
	filters := ordersvc.OrderFilters{Query: query}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return ordersvc.OrderFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return ordersvc.OrderFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
		filters.PaymentStatus = &status
	}

	dateFrom, err := validators.ParseQueryTimePtr(r, "date_from")
	if err != nil {
		return ordersvc.OrderFilters{}, err
	}
	filters.DateFrom = dateFrom

	dateTo, err := validators.ParseQueryTimePtr(r, "date_to")
	if err != nil {
		return ordersvc.OrderFilters{}, err
	}
	filters.DateTo = dateTo

	return filters, nil
}
