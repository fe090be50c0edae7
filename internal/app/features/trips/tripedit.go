// internal/app/features/trips/tripedit.go
package trips

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/reqval"
	"github.com/automaatje/automaatje/internal/app/system/sanitize"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
)

// HandleEdit handles PUT /trips/{tripID}. Only name, date and destination
// change; legs are edited through the legs feature.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	var in tripInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	date, err := parseDate(in.Date)
	if err != nil {
		apperrors.Write(w, r, h.Log, &reqval.Error{Fields: map[string]string{"date": err.Error()}})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update trip")
	defer cancel()

	updated, err := h.Trips.UpdateInfo(ctx, trip.ID, sanitize.Name(in.Name), date, sanitize.Name(in.Destination))
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	apperrors.JSON(w, http.StatusOK, viewOf(updated, nil))
}
