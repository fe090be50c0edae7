// internal/app/features/export/routes.go
package export

import (
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /trips/{tripID}/export.pdf.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.RequireClassMember).Get("/", h.ServePDF)
	return r
}
