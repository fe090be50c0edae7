// internal/app/features/trips/tripview.go
package trips

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
)

// ServeView handles GET /trips/{tripID}. Legs come from the hub so the
// response reflects commits that are still being saved.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load trip legs")
	defer cancel()

	legs, err := h.Hub.LoadTrip(ctx, trip.ID.Hex())
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, viewOf(trip, legs))
}

// ServeRoster handles GET /trips/{tripID}/roster: every child name the
// class has used on any trip.
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load roster")
	defer cancel()

	known, err := h.Roster.Known(ctx, trip.ClassID)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, map[string]any{"children": known})
}
