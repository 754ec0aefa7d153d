// internal/app/features/results/handler.go
package results

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

// Handler renders the test-history view, newest first.
type Handler struct {
	Vocab *vocabstore.Store
	Log   *zap.Logger
}

type row struct {
	models.TestResult
	Score int
}

type pageData struct {
	viewdata.BaseVM
	Results []row
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	history := h.Vocab.TestHistoryByUser(ctx, userID)

	rows := make([]row, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		res := history[i]
		score := 0
		if res.Total > 0 {
			score = res.Correct * 100 / res.Total
		}
		rows = append(rows, row{TestResult: res, Score: score})
	}

	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Test Results", "/"),
		Results: rows,
	}
	templates.Render(w, r, "results_page", data)
}
