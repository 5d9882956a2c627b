package products

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dkellner/audiohaus-backend/api/responses"
	"github.com/dkellner/audiohaus-backend/api/validators"
	catalogsvc "github.com/dkellner/audiohaus-backend/internal/catalog"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
)

// List serves the storefront product listing with filters and paging.
func List(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Detail serves one product by its storefront slug.
func Detail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug required"))
			return
		}

		detail, err := svc.GetProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Categories serves the category list for storefront navigation.
func Categories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func parseListFilters(r *http.Request) (catalogsvc.ProductListFilters, error) {
	priceMin, err := validators.ParseQueryInt64Ptr(r, "price_min")
	if err != nil {
		return catalogsvc.ProductListFilters{}, err
	}
	priceMax, err := validators.ParseQueryInt64Ptr(r, "price_max")
	if err != nil {
		return catalogsvc.ProductListFilters{}, err
	}
	inStock, err := validators.ParseQueryBool(r, "in_stock")
	if err != nil {
		return catalogsvc.ProductListFilters{}, err
	}

	return catalogsvc.ProductListFilters{
		CategorySlug:  strings.TrimSpace(r.URL.Query().Get("category")),
		Brand:         strings.TrimSpace(r.URL.Query().Get("brand")),
		PriceMinCents: priceMin,
		PriceMaxCents: priceMax,
		InStockOnly:   inStock,
		Query:         searchParam(r),
	}, nil
}

// searchParam accepts both the documented "search" key and the short "q".
func searchParam(r *http.Request) string {
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		return search
	}
	return strings.TrimSpace(r.URL.Query().Get("q"))
}
