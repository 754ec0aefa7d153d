// internal/app/features/home/upload.go
package home

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/csvutil"
	"github.com/dalemusser/vocabhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/vocabhub/internal/app/system/limits"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleWordsUpload accepts a CSV of term,translation[,notes] rows and
// adds them to the signed-in user's vocabulary. The file is pre-scanned
// in full before anything is written.
// POST /words/upload with multipart field "file".
func (h *Handler) HandleWordsUpload(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseMultipartForm(limits.MaxWordsCSVSize); err != nil {
		h.redirectFlash(w, r, "Upload too large or malformed.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.redirectFlash(w, r, "No file selected.")
		return
	}
	defer file.Close()

	rows, htmlErr, err := csvutil.PreScanWordsCSV(file)
	if err != nil {
		h.Log.Error("words csv scan failed", zap.Error(err))
		h.redirectFlash(w, r, "Could not read the file.")
		return
	}
	if htmlErr != "" {
		// The pre-scan message is already escaped HTML; the flash line is
		// plain text, so keep just the first sentence.
		h.redirectFlash(w, r, "Upload rejected: check that every row has a term and a translation.")
		return
	}
	if len(rows) == 0 {
		h.redirectFlash(w, r, "The file contains no words.")
		return
	}

	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, models.Word{
			Term:        row.Term,
			Translation: row.Translation,
			Notes:       htmlsanitize.Sanitize(row.Notes),
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Vocab.AddWords(ctx, userID, words); err != nil {
		h.ErrLog.LogServerError(w, r, "words upload failed", err,
			"A database error occurred.", "/")
		return
	}

	h.Log.Info("words uploaded",
		zap.String("user_id", userID.Hex()),
		zap.Int("count", len(words)))
	h.redirectFlash(w, r, "Words added.")
}

func (h *Handler) redirectFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}
