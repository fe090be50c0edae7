// internal/app/features/trips/tripnew.go
package trips

import (
	"fmt"
	"net/http"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/rostersync"
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/automaatje/automaatje/internal/app/system/reqval"
	"github.com/automaatje/automaatje/internal/app/system/sanitize"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate handles POST /trips. With seed_roster both legs start with
// every child the class has used before.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create trip")
	defer cancel()

	trip := models.Trip{
		Name:        sanitize.Name(in.Name),
		Date:        date,
		Destination: sanitize.Name(in.Destination),
		ClassID:     u.ClassID,
		CreatedBy:   u.ID,
	}
	if in.SeedRoster {
		known, err := h.Roster.Known(ctx, u.ClassID)
		if err != nil {
			apperrors.Write(w, r, h.Log, fmt.Errorf("seed roster: %w", err))
			return
		}
		for _, dir := range models.Directions {
			leg, _ := rostersync.ImportIntoLeg(models.EmptyLeg(), known)
			trip.SetLeg(dir, leg)
		}
	}

	created, err := h.Trips.Create(ctx, trip)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}
	h.Roster.Invalidate(u.ClassID)
	h.Log.Info("trip created",
		zap.String("trip_id", created.ID.Hex()),
		zap.String("class_id", u.ClassID),
		zap.Int("children", created.LegOrEmpty(models.Outbound).ChildCount()))

	apperrors.JSON(w, http.StatusCreated, viewOf(created, nil))
}
