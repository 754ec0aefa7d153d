// internal/app/features/login/reset.go
package login

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/normalize"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ResetLanding serves the landing page for emailed credential-reset
// links. Credentials live with Google, so a valid token confirms account
// recovery and sends the user back through Google sign-in.
type ResetLanding struct {
	Resets *userstore.ResetStore
	Log    *zap.Logger
}

type resetPageData struct {
	viewdata.BaseVM
	Valid bool
}

func (h *ResetLanding) Serve(w http.ResponseWriter, r *http.Request) {
	email := normalize.Email(r.URL.Query().Get("email"))
	token := r.URL.Query().Get("token")

	valid := false
	if email != "" && token != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		ok, err := h.Resets.VerifyToken(ctx, email, token)
		if err != nil {
			h.Log.Error("reset token verification failed",
				zap.String("email", email), zap.Error(err))
		}
		valid = ok
	}

	data := resetPageData{
		BaseVM: viewdata.NewBaseVM(r, "Account Recovery", "/login"),
		Valid:  valid,
	}
	templates.Render(w, r, "reset_landing", data)
}
