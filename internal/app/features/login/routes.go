// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/vocabhub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the sign-in page, the Google OAuth endpoints, and the
// recovery-link landing page. The OAuth endpoints sit behind a per-IP
// limiter.
func Routes(r chi.Router, h *Handler, reset *ResetLanding, limiter *ratelimit.SignInLimiter) {
	r.Get("/login", h.ServeLoginPage)
	r.Group(func(g chi.Router) {
		g.Use(limiter.Middleware)
		g.Get("/auth/google", h.ServeGoogleStart)
		g.Get("/auth/google/callback", h.ServeGoogleCallback)
	})
	r.Get("/reset-password", reset.Serve)
}
