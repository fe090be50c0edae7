// internal/app/features/legs/children.go
package legs

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/app/system/sanitize"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Child edits change the class roster, so each successful one invalidates it.

// HandleAddChild handles POST .../children.
func (h *Handler) HandleAddChild(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in childInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := h.applyCtx(r, "add child")
	defer cancel()

	var child models.Child
	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, c, err := assign.AddChild(cur, sanitize.Name(in.Name))
		child = c
		return next, err == nil, err
	})
	if committed(err) {
		h.Roster.Invalidate(t.trip.ClassID)
	}
	h.reply(w, r, t, http.StatusCreated, map[string]any{"child": child}, leg, err)
}

// HandleRenameChild handles PATCH .../children/{childID}.
func (h *Handler) HandleRenameChild(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in childInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	childID := chi.URLParam(r, "childID")

	ctx, cancel := h.applyCtx(r, "rename child")
	defer cancel()

	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, err := assign.RenameChild(cur, childID, sanitize.Name(in.Name))
		return next, err == nil, err
	})
	if committed(err) {
		h.Roster.Invalidate(t.trip.ClassID)
	}
	h.reply(w, r, t, http.StatusOK, nil, leg, err)
}

// HandleRemoveChild handles DELETE .../children/{childID}.
func (h *Handler) HandleRemoveChild(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	childID := chi.URLParam(r, "childID")

	ctx, cancel := h.applyCtx(r, "remove child")
	defer cancel()

	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, err := assign.RemoveChild(cur, childID)
		return next, err == nil, err
	})
	if committed(err) {
		h.Roster.Invalidate(t.trip.ClassID)
	}
	h.reply(w, r, t, http.StatusOK, nil, leg, err)
}
