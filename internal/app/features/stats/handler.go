// internal/app/features/stats/handler.go
package stats

import (
	"context"
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/features/errors"
	vocabstore "github.com/dalemusser/vocabhub/internal/app/store/vocab"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler renders the learning-statistics view.
type Handler struct {
	Vocab *vocabstore.Store
	Log   *zap.Logger
}

type pageData struct {
	viewdata.BaseVM
	Stats *models.Statistics
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Statistics", "/"),
		Stats:  h.Vocab.StatisticsByUser(ctx, userID),
	}
	templates.Render(w, r, "stats_page", data)
}
