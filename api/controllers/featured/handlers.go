package featured

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dkellner/audiohaus-backend/api/responses"
	"github.com/dkellner/audiohaus-backend/api/validators"
	featuredsvc "github.com/dkellner/audiohaus-backend/internal/featured"
	pkgerrors "github.com/dkellner/audiohaus-backend/pkg/errors"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
)

type setSlotRequest struct {
	Position  int        `json:"position" validate:"required"`
	ProductID *uuid.UUID `json:"product_id"`
}

// List serves the four homepage slots.
func List(svc featuredsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "featured service unavailable"))
			return
		}

		slots, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"slots": slots})
	}
}

// SetSlot assigns or clears a homepage slot. A null product_id clears.
func SetSlot(svc featuredsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "featured service unavailable"))
			return
		}

		var payload setSlotRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slots, err := svc.Set(r.Context(), payload.Position, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"slots": slots})
	}
}
