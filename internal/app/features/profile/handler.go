// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/features/errors"
	userstore "github.com/dalemusser/vocabhub/internal/app/store/users"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler renders the signed-in user's profile.
type Handler struct {
	Users  *userstore.Store
	ErrLog *errors.ErrorLogger
	Log    *zap.Logger
}

type pageData struct {
	viewdata.BaseVM
	Profile *models.User
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile lookup failed", err,
			"We couldn't load your profile. Please try again.", "/")
		return
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Profile", "/"),
		Profile: u,
	}
	templates.Render(w, r, "profile_page", data)
}
