// internal/app/features/session/routes.go
package session

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeCurrent)
	r.Delete("/", h.HandleSignOut)
	if h.DevSignIn {
		r.Post("/", h.HandleSignIn)
	}
	return r
}
