// internal/app/features/home/routes.go
package home

import (
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the word-list mutations. The list itself renders through
// the shell.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(g chi.Router) {
		g.Use(sm.RequireSignedIn)
		g.Post("/words/upload", h.HandleWordsUpload)
	})
}
