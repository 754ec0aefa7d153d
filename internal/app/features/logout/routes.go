// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

func Routes(r chi.Router, h *Handler) {
	r.Post("/logout", h.Serve)
	// Plain links also need to sign out.
	r.Get("/logout", h.Serve)
}
