// internal/app/features/home/handler.go
package home

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

// Handler renders the main vocabulary view.
type Handler struct {
	Vocab  *vocabstore.Store
	ErrLog *errors.ErrorLogger
	Log    *zap.Logger
}

type pageData struct {
	viewdata.BaseVM
	Words []models.Word
	Flash string

	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
}

// Serve renders the signed-in user's word list, one keyset page at a
// time (?before= / ?after= cursors).
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	before := r.URL.Query().Get("before")
	after := r.URL.Query().Get("after")

	words, page, prev, next, err := h.Vocab.WordsPage(ctx, userID, before, after)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load word list failed", err,
			"A database error occurred.", "/")
		return
	}

	data := pageData{
		BaseVM:     viewdata.NewBaseVM(r, "My Words", "/"),
		Words:      words,
		Flash:      r.URL.Query().Get("msg"),
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prev,
		NextCursor: next,
	}
	templates.Render(w, r, "home_main", data)
}
