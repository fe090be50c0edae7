// internal/app/features/legs/importroster.go
package legs

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/rostersync"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/domain/models"
	"go.uber.org/zap"
)

// HandleImportRoster handles POST .../import-roster: every child the class
// has used on any trip, and that is not yet in this leg by name, is added to
// the pool.
func (h *Handler) HandleImportRoster(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}

	rctx, rcancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load roster")
	known, err := h.Roster.Known(rctx, t.trip.ClassID)
	rcancel()
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := h.applyCtx(r, "import roster")
	defer cancel()

	added := 0
	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, n := rostersync.ImportIntoLeg(cur, known)
		added = n
		return next, n > 0, nil
	})
	if added > 0 && committed(err) {
		h.Log.Info("roster imported",
			zap.String("trip_id", t.trip.ID.Hex()),
			zap.String("direction", string(t.store.Direction())),
			zap.Int("added", added))
	}
	h.reply(w, r, t, http.StatusOK, map[string]any{"added": added}, leg, err)
}
