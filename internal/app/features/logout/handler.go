// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/system/auditlog"
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler signs the user out and clears the session cookie.
type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			h.AuditLog.Logout(r.Context(), id)
		}
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("sign-out failed", zap.Error(err))
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
