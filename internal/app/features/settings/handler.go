// internal/app/features/settings/handler.go
package settings

import (
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler renders the account-settings view.
type Handler struct{}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}
	templates.Render(w, r, "settings_page", viewdata.NewBaseVM(r, "Settings", "/"))
}
