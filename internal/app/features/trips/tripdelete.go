// internal/app/features/trips/tripdelete.go
package trips

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /trips/{tripID}. The in-memory legs are
// dropped and the class roster is recomputed on next use.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete trip")
	defer cancel()

	if _, err := h.Trips.Delete(ctx, trip.ID); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	h.Hub.Drop(trip.ID.Hex())
	h.Roster.Invalidate(trip.ClassID)
	h.Log.Info("trip deleted", zap.String("trip_id", trip.ID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}
