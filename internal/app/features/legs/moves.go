// internal/app/features/legs/moves.go
package legs

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/domain/models"
)

// HandleMove handles POST .../moves, the drag-and-drop of one child onto a
// car or back to the pool. The response always names the outcome and the
// leg as it now is, including for a full car.
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in moveInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := h.applyCtx(r, "move child")
	defer cancel()

	var outcome assign.Outcome
	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, o := assign.Move(cur, in.ChildID, in.Target)
		outcome = o
		return next, o.Changed(), o.Err()
	})
	h.reply(w, r, t, http.StatusOK, map[string]any{"outcome": outcome}, leg, err)
}
