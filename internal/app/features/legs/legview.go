// internal/app/features/legs/legview.go
package legs

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
)

// ServeLeg handles GET /trips/{tripID}/legs/{dir}.
func (h *Handler) ServeLeg(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	apperrors.JSON(w, http.StatusOK, map[string]any{
		"leg":     t.leg,
		"pending": t.store.Pending(),
	})
}
