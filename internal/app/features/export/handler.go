// internal/app/features/export/handler.go
package export

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/automaatje/automaatje/internal/app/features/errors"
	"github.com/automaatje/automaatje/internal/app/leghub"
	"github.com/automaatje/automaatje/internal/app/system/timeouts"
	"github.com/automaatje/automaatje/internal/app/system/tripaccess"
	"go.uber.org/zap"
)

type Handler struct {
	Trips tripaccess.Getter
	Hub   *leghub.Hub
	Log   *zap.Logger
}

func NewHandler(trips tripaccess.Getter, hub *leghub.Hub, logger *zap.Logger) *Handler {
	return &Handler{Trips: trips, Hub: hub, Log: logger}
}

// ServePDF handles GET /trips/{tripID}/export.pdf.
func (h *Handler) ServePDF(w http.ResponseWriter, r *http.Request) {
	trip, err := tripaccess.Load(r, h.Trips)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load trip legs")
	defer cancel()
	legs, err := h.Hub.LoadTrip(ctx, trip.ID.Hex())
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	pdfBytes, filename, err := BuildPDF(trip, legs)
	if err != nil {
		apperrors.Write(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
