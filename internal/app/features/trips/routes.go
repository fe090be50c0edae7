// internal/app/features/trips/routes.go
package trips

import (
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /trips requires a class member
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireClassMember)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{tripID}", h.ServeView)
		pr.Put("/{tripID}", h.HandleEdit)
		pr.Delete("/{tripID}", h.HandleDelete)

		pr.Get("/{tripID}/roster", h.ServeRoster)
	})

	return r
}
