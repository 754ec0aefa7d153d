// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin surface (typically at "/admin" from bootstrap).
// Route-level middleware takes the coarse role check; the controller
// re-checks the role on every operation regardless.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)

		pr.Post("/{id}/toggle", h.HandleToggle)
		pr.Post("/{id}/reset-password", h.HandleResetPassword)
		pr.Get("/{id}/export", h.ServeExport)
		pr.Post("/import", h.HandleImport)

		pr.Post("/{id}/delete", h.HandleDeleteRequest)
		pr.Post("/delete/confirm", h.HandleDeleteConfirm)
		pr.Post("/delete/cancel", h.HandleDeleteCancel)
	})

	return r
}
