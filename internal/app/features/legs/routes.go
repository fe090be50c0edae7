// internal/app/features/legs/routes.go
package legs

import (
	"github.com/automaatje/automaatje/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /trips/{tripID}/legs.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireClassMember)

		pr.Route("/{dir}", func(lr chi.Router) {
			lr.Get("/", h.ServeLeg)
			lr.Get("/events", h.ServeEvents)

			lr.Post("/moves", h.HandleMove)

			lr.Post("/cars", h.HandleAddCar)
			lr.Patch("/cars/{carID}", h.HandleUpdateCar)
			lr.Delete("/cars/{carID}", h.HandleRemoveCar)

			lr.Post("/children", h.HandleAddChild)
			lr.Patch("/children/{childID}", h.HandleRenameChild)
			lr.Delete("/children/{childID}", h.HandleRemoveChild)

			lr.Post("/import-roster", h.HandleImportRoster)
		})
	})

	return r
}
