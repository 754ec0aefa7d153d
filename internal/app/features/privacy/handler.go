// internal/app/features/privacy/handler.go
package privacy

import (
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler renders the privacy-policy page. Public: no sign-in required.
type Handler struct{}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "privacy_page", viewdata.NewBaseVM(r, "Privacy Policy", "/"))
}
