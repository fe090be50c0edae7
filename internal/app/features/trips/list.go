// internal/app/features/trips/list.go
package trips

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
)

// ServeList handles GET /trips: the caller's class trips, by date.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list trips")
	defer cancel()

	trips, err := h.Trips.ListByClass(ctx, u.ClassID)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	out := make([]tripSummary, 0, len(trips))
	for _, t := range trips {
		out = append(out, summarize(t))
	}
	apperrors.JSON(w, http.StatusOK, map[string]any{"trips": out})
}
