// internal/app/features/shell/routes.go
package shell

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the view dispatcher. The bare root renders the default
// view; /view/{name} selects a named one.
func Routes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeView(""))
	r.Get("/view/{name}", func(w http.ResponseWriter, req *http.Request) {
		h.ServeView(chi.URLParam(req, "name"))(w, req)
	})
}
