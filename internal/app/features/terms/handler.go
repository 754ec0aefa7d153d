// internal/app/features/terms/handler.go
package terms

import (
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler renders the terms-of-service page. Public: no sign-in required.
type Handler struct{}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "terms_page", viewdata.NewBaseVM(r, "Terms of Service", "/"))
}
