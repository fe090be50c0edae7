// internal/app/features/legs/cars.go
package legs

import (
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/app/system/sanitize"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// HandleAddCar handles POST .../cars.
func (h *Handler) HandleAddCar(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in carInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := h.applyCtx(r, "add car")
	defer cancel()

	var car models.Car
	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, c, err := assign.AddCar(cur, sanitize.Name(in.Driver), in.Capacity)
		car = c
		return next, err == nil, err
	})
	h.reply(w, r, t, http.StatusCreated, map[string]any{"car": car}, leg, err)
}

// HandleUpdateCar handles PATCH .../cars/{carID}.
func (h *Handler) HandleUpdateCar(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var in carInput
	if err := apperrors.Decode(r, &in); err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	carID := chi.URLParam(r, "carID")

	ctx, cancel := h.applyCtx(r, "update car")
	defer cancel()

	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, err := assign.UpdateCar(cur, carID, sanitize.Name(in.Driver), in.Capacity)
		return next, err == nil, err
	})
	h.reply(w, r, t, http.StatusOK, nil, leg, err)
}

// HandleRemoveCar handles DELETE .../cars/{carID}. Its passengers go back
// to the pool.
func (h *Handler) HandleRemoveCar(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r)
	if !ok {
		return
	}
	carID := chi.URLParam(r, "carID")

	ctx, cancel := h.applyCtx(r, "remove car")
	defer cancel()

	leg, err := t.store.Apply(ctx, func(cur models.TripLeg) (models.TripLeg, bool, error) {
		next, err := assign.RemoveCar(cur, carID)
		return next, err == nil, err
	})
	h.reply(w, r, t, http.StatusOK, nil, leg, err)
}
