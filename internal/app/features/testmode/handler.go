// internal/app/features/testmode/handler.go
package testmode

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

// Handler renders the test-taking surface. Test mode takes over the whole
// page: no navigation chrome until the test is finished or abandoned.
type Handler struct {
	Vocab *vocabstore.Store
	Log   *zap.Logger
}

type pageData struct {
	viewdata.BaseVM
	Words []models.Word
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := pageData{
		BaseVM: viewdata.NewBaseVM(r, "Vocabulary Test", "/"),
		Words:  h.Vocab.WordsByUser(ctx, userID),
	}
	templates.Render(w, r, "test_page", data)
}
