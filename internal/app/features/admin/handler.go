// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/limits"
	"github.com/dalemusser/vocabhub/internal/app/system/timeouts"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the admin surface: the user list plus the per-row guarded
// operations.
type Handler struct {
	Ctrl   *Controller
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs the admin feature handler.
func NewHandler(ctrl *Controller, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Ctrl: ctrl, ErrLog: errLog, Log: logger}
}

// userRow is one entry in the managed user list.
type userRow struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
	Active      bool

	// Per-affordance busy flags for the exact (kind, target) pair.
	ToggleBusy bool
	ResetBusy  bool
	ExportBusy bool
	DeleteBusy bool
}

// listData is the view model for the admin user list page.
type listData struct {
	viewdata.BaseVM

	SearchQuery string
	Rows        []userRow
	Shown       int
	Total       int

	Flash string
}

// confirmData is the view model for the delete confirmation page.
type confirmData struct {
	viewdata.BaseVM

	ConfirmationID string
	TargetEmail    string
	TargetName     string
}

// ServeList renders the managed user collection, filtered by the search
// box. Filtering is pure and re-runs on every request.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if len(h.Ctrl.Users()) == 0 {
		if err := h.Ctrl.Reload(ctx); err != nil {
			h.ErrLog.LogServerError(w, r, "load user collection failed", err,
				"A database error occurred.", "/")
			return
		}
	}

	all := h.Ctrl.Users()
	q := r.URL.Query().Get("q")
	filtered := FilterUsers(all, q)

	rows := make([]userRow, 0, len(filtered))
	for _, u := range filtered {
		id := u.ID.Hex()
		rows = append(rows, userRow{
			ID:          id,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Active:      u.IsActive(),
			ToggleBusy:  h.Ctrl.Busy(KindToggleStatus, id),
			ResetBusy:   h.Ctrl.Busy(KindResetPassword, id),
			ExportBusy:  h.Ctrl.Busy(KindExport, id),
			DeleteBusy:  h.Ctrl.Busy(KindDelete, id),
		})
	}

	data := listData{
		BaseVM:      viewdata.NewBaseVM(r, "User Management", "/"),
		SearchQuery: q,
		Rows:        rows,
		Shown:       len(rows),
		Total:       len(all),
		Flash:       r.URL.Query().Get("msg"),
	}
	templates.Render(w, r, "admin_users", data)
}

// HandleToggle flips the target's active status.
// POST /{id}/toggle with form field active=true|false.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	actor, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	desired := r.FormValue("active") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Ctrl.ToggleStatus(ctx, actor, target, desired)
	h.finishOperation(w, r, err, "Status updated.")
}

// HandleResetPassword triggers the out-of-band reset flow for the target.
// POST /{id}/reset-password.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Ctrl.ResetPassword(ctx, actor, target)
	h.finishOperation(w, r, err, "Password reset sent.")
}

// ServeExport streams the target's snapshot document as a download.
// GET /{id}/export.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	actor, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	art, err := h.Ctrl.ExportData(ctx, actor, target)
	if err != nil {
		h.finishOperation(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(art.Filename)))
	if _, err := w.Write(art.Body); err != nil {
		h.Log.Error("export write failed", zap.Error(err))
	}
}

// HandleImport accepts a previously exported document.
// POST /import with multipart field "file".
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxImportSize); err != nil {
		h.redirectFlash(w, r, "Upload too large or malformed.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.redirectFlash(w, r, "No file selected.")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, limits.MaxImportSize))
	if err != nil {
		h.redirectFlash(w, r, "Could not read upload.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err = h.Ctrl.ImportData(ctx, actor, payload)
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		h.redirectFlash(w, r, "Import rejected: "+vErr.Reason)
		return
	}
	h.finishOperation(w, r, err, "Import applied.")
}

// HandleDeleteRequest starts the two-step deletion protocol.
// POST /{id}/delete.
func (h *Handler) HandleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	_, target, ok := h.actorAndTarget(w, r)
	if !ok {
		return
	}

	p := h.Ctrl.RequestDelete(target)
	data := confirmData{
		BaseVM:         viewdata.NewBaseVM(r, "Confirm Deletion", "/admin"),
		ConfirmationID: p.ID,
		TargetEmail:    target.Email,
		TargetName:     target.DisplayName,
	}
	templates.Render(w, r, "admin_confirm_delete", data)
}

// HandleDeleteConfirm resumes a pending deletion.
// POST /delete/confirm with form field confirmation_id.
func (h *Handler) HandleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	err := h.Ctrl.ConfirmDelete(ctx, actor, r.FormValue("confirmation_id"))
	h.finishOperation(w, r, err, "User deleted.")
}

// HandleDeleteCancel aborts a pending deletion.
// POST /delete/cancel with form field confirmation_id.
func (h *Handler) HandleDeleteCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Ctrl.CancelDelete(r.FormValue("confirmation_id")); err != nil {
		h.redirectFlash(w, r, "Nothing to cancel.")
		return
	}
	h.redirectFlash(w, r, "Deletion cancelled.")
}

// --- helpers ---

// actor re-derives the acting admin from the request context. The role is
// checked again inside the controller; this only rejects the obviously
// unauthenticated early.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (Actor, bool) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Actor{}, false
	}
	return Actor{ID: uid, Role: authz.RoleInfo{Role: role, IsAdmin: role == models.RoleAdmin}}, true
}

func (h *Handler) actorAndTarget(w http.ResponseWriter, r *http.Request) (Actor, models.User, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return Actor{}, models.User{}, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.redirectFlash(w, r, "Unknown user.")
		return Actor{}, models.User{}, false
	}

	for _, u := range h.Ctrl.Users() {
		if u.ID == id {
			return actor, u, true
		}
	}
	h.redirectFlash(w, r, "Unknown user.")
	return Actor{}, models.User{}, false
}

// finishOperation maps an operation outcome to a non-blocking flash
// message. Failures never leave the admin view unusable and are never
// retried automatically.
func (h *Handler) finishOperation(w http.ResponseWriter, r *http.Request, err error, okMsg string) {
	switch {
	case err == nil:
		h.redirectFlash(w, r, okMsg)
	case errors.Is(err, ErrNotAuthorized):
		uierrors.RenderForbidden(w, r, "You don't have permission to manage users.", "/")
	case errors.Is(err, ErrOperationInFlight):
		h.redirectFlash(w, r, "That operation is already running for this user.")
	case errors.Is(err, ErrUnknownConfirmation):
		h.redirectFlash(w, r, "That confirmation has expired.")
	default:
		h.Log.Error("admin operation failed", zap.Error(err))
		h.redirectFlash(w, r, "The operation failed. Nothing was changed.")
	}
}

func (h *Handler) redirectFlash(w http.ResponseWriter, r *http.Request, msg string) {
	dest := "/admin"
	if msg != "" {
		dest += "?msg=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
