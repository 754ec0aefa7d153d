// internal/app/features/testmode/routes.go
package testmode

import (
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the test-submission endpoint. The test page itself is
// rendered through the view dispatcher.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/test/submit", h.HandleSubmit)
	})
}
