// internal/app/features/legs/handler.go
package legs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/assign"
	"github.com/automaatje/automaatje/internal/app/leghub"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
	"github.com/automaatje/automaatje/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DirParam is the chi parameter holding the leg direction.
const DirParam = "dir"

// Roster is the part of the roster cache the legs feature uses.
type Roster interface {
	Known(ctx context.Context, classID string) ([]models.Child, error)
	Invalidate(classID string)
}

// Handler serves the editing endpoints of one trip leg. Every edit runs
// through the leg's LegStore so concurrent requests are applied one at a time.
type Handler struct {
	Trips  tripaccess.Getter
	Hub    *leghub.Hub
	Roster Roster
	Log    *zap.Logger
}

func NewHandler(trips tripaccess.Getter, hub *leghub.Hub, roster Roster, logger *zap.Logger) *Handler {
	return &Handler{
		Trips:  trips,
		Hub:    hub,
		Roster: roster,
		Log:    logger,
	}
}

// target is the trip and loaded leg store a request operates on.
type target struct {
	trip  models.Trip
	store *leghub.LegStore
	leg   models.TripLeg
}

// resolve checks access to the trip, parses the direction and loads the leg.
// On failure the error response has been written.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (target, bool) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return target{}, false
	}
	dir, err := models.ParseDirection(chi.URLParam(r, DirParam))
	if err != nil {
		apperrors.Write(w, r, h.Log, fmt.Errorf("%w: %w", assign.ErrNotFound, err))
		return target{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load leg")
	defer cancel()

	store, leg, err := h.Hub.Load(ctx, trip.ID.Hex(), dir)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return target{}, false
	}
	return target{trip: trip, store: store, leg: leg}, true
}

// reply writes fields plus the leg. When err is set the error body is added
// under "error" and the status follows the error; a save failure still
// carries the committed leg.
func (h *Handler) reply(w http.ResponseWriter, r *http.Request, t target, status int, fields map[string]any, leg models.TripLeg, err error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["leg"] = leg
	if err == nil {
		apperrors.JSON(w, status, fields)
		return
	}

	st, body := apperrors.New(err)
	fields["error"] = body.Error
	if errors.Is(err, leghub.ErrPersistence) {
		h.Log.Warn("leg committed but not saved",
			zap.String("trip_id", t.trip.ID.Hex()),
			zap.String("direction", string(t.store.Direction())),
			zap.Error(err))
	} else if st >= 500 {
		h.Log.Error("leg edit failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	apperrors.JSON(w, st, fields)
}

// committed reports whether err leaves the edit applied in memory.
func committed(err error) bool {
	return err == nil || errors.Is(err, leghub.ErrPersistence)
}

// applyCtx bounds an edit by the save timeout plus the time spent waiting
// for the leg lock.
func (h *Handler) applyCtx(r *http.Request, op string) (context.Context, context.CancelFunc) {
	return timeouts.WithTimeout(r.Context(), timeouts.Save()+timeouts.Short(), h.Log, op)
}
