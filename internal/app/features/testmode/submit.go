// internal/app/features/testmode/submit.go
package testmode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/limits"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

// HandleSubmit grades a submitted test and records the result, then sends
// the user to the results view.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	words := h.Vocab.WordsByUser(ctx, userID)
	if len(words) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	correct := 0
	for _, word := range words {
		answer := strings.TrimSpace(r.FormValue("answer_" + word.ID.Hex()))
		if answer != "" && text.Fold(answer) == text.Fold(word.Translation) {
			correct++
		}
	}

	res := models.TestResult{
		UserID:  userID,
		Total:   len(words),
		Correct: correct,
		TakenAt: time.Now().UTC(),
	}
	if err := h.Vocab.RecordTestResult(ctx, res); err != nil {
		h.Log.Error("record test result failed",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}

	http.Redirect(w, r, "/view/resultsMode", http.StatusSeeOther)
}
