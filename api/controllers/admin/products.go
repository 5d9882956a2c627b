package admin

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/api/responses"
	"github.com/dkellner/audiohaus-backend/api/validators"
	catalogsvc "github.com/dkellner/audiohaus-backend/internal/catalog"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/money"
)

type imageRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type colorRequest struct {
	Name string `json:"name" validate:"required"`
	Hex  string `json:"hex" validate:"required"`
}

type createProductRequest struct {
	SKU         string         `json:"sku" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Brand       string         `json:"brand,omitempty"`
	Description *string        `json:"description,omitempty"`
	PriceCents  *int64         `json:"price_cents,omitempty"`
	ContactOnly bool           `json:"contact_only"`
	StockCount  int            `json:"stock_count" validate:"gte=0"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Images      []imageRequest `json:"images,omitempty" validate:"dive"`
	Colors      []colorRequest `json:"colors,omitempty" validate:"dive"`
}

type updateProductRequest struct {
	SKU         *string         `json:"sku,omitempty"`
	Name        *string         `json:"name,omitempty"`
	Brand       *string         `json:"brand,omitempty"`
	Description *string         `json:"description,omitempty"`
	PriceCents  *int64          `json:"price_cents,omitempty"`
	ContactOnly *bool           `json:"contact_only,omitempty"`
	StockCount  *int            `json:"stock_count,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Images      *[]imageRequest `json:"images,omitempty" validate:"omitempty,dive"`
	Colors      *[]colorRequest `json:"colors,omitempty" validate:"omitempty,dive"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateProduct adds a catalog listing.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.CreateProduct(r.Context(), catalogsvc.CreateProductInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Brand:       payload.Brand,
			Description: payload.Description,
			PriceCents:  centsPtr(payload.PriceCents),
			ContactOnly: payload.ContactOnly,
			StockCount:  payload.StockCount,
			CategoryID:  payload.CategoryID,
			Images:      toImageInputs(payload.Images),
			Colors:      toColorInputs(payload.Colors),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// GetProduct serves one product by id for the back office.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// UpdateProduct applies partial changes to a listing.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.UpdateProductInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Brand:       payload.Brand,
			Description: payload.Description,
			PriceCents:  centsPtr(payload.PriceCents),
			ContactOnly: payload.ContactOnly,
			StockCount:  payload.StockCount,
			CategoryID:  payload.CategoryID,
		}
		if payload.Images != nil {
			images := toImageInputs(*payload.Images)
			input.Images = &images
		}
		if payload.Colors != nil {
			colors := toColorInputs(*payload.Colors)
			input.Colors = &colors
		}

		detail, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// DeleteProduct removes a listing. Historical orders keep their snapshots.
func DeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateCategory adds a category.
func CreateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// UpdateCategory renames a category.
func UpdateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), id, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// DeleteCategory removes a category, detaching its products.
func DeleteCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func centsPtr(value *int64) *money.Cents {
	if value == nil {
		return nil
	}
	cents := money.Cents(*value)
	return &cents
}

func toImageInputs(images []imageRequest) []catalogsvc.ImageInput {
	inputs := make([]catalogsvc.ImageInput, 0, len(images))
	for _, image := range images {
		inputs = append(inputs, catalogsvc.ImageInput{URL: image.URL})
	}
	return inputs
}

func toColorInputs(colors []colorRequest) []catalogsvc.ColorInput {
	inputs := make([]catalogsvc.ColorInput, 0, len(colors))
	for _, color := range colors {
		inputs = append(inputs, catalogsvc.ColorInput{Name: color.Name, Hex: color.Hex})
	}
	return inputs
}
