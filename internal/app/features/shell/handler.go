// internal/app/features/shell/handler.go
package shell

import (
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/app/system/authz"
	"github.com/dalemusser/vocabhub/internal/app/system/gate"
	"github.com/dalemusser/vocabhub/internal/app/system/router"
	"github.com/dalemusser/vocabhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// returnCookie remembers an explicit post-login target across the
// authentication round trip.
const returnCookie = "vocabhub-return"

// RenderFunc renders one surface. Features register theirs with the shell.
type RenderFunc func(w http.ResponseWriter, r *http.Request)

// Surfaces maps every routable surface to its renderer.
type Surfaces struct {
	Main     RenderFunc
	Stats    RenderFunc
	Admin    RenderFunc
	Profile  RenderFunc
	Settings RenderFunc
	Terms    RenderFunc
	Privacy  RenderFunc
	Test     RenderFunc
	Results  RenderFunc
}

// Handler is the sole rendering-decision entry point: every view request
// flows through the bootstrap gate and then the access router.
type Handler struct {
	Gate     *gate.Gate
	Surfaces Surfaces
	Codec    *securecookie.SecureCookie
	Log      *zap.Logger
}

// NewHandler wires the shell to the gate and the surface renderers.
// The securecookie codec signs the post-login return-target cookie.
func NewHandler(g *gate.Gate, surfaces Surfaces, codec *securecookie.SecureCookie, logger *zap.Logger) *Handler {
	return &Handler{Gate: g, Surfaces: surfaces, Codec: codec, Log: logger}
}

// loadingData is the view model for the bootstrap placeholder.
type loadingData struct {
	viewdata.BaseVM
	SlowStart bool
}

// ServeView handles GET / and GET /view/{name}.
//
// The gate is consulted first: nothing beyond the loading or failure
// placeholder renders until it is Ready. Only then is the access router
// evaluated, with the identity taken from the request context.
func (h *Handler) ServeView(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch h.Gate.State() {
		case gate.Error:
			uierrors.RenderBootstrapError(w, r, h.Gate.Err())
			return
		case gate.Initializing:
			data := loadingData{
				BaseVM:    viewdata.NewBaseVM(r, "Loading", "/"),
				SlowStart: h.Gate.SlowStart(),
			}
			templates.Render(w, r, "shell_loading", data)
			return
		}

		u, authenticated := auth.CurrentUser(r)

		// The remembered target survives unauthenticated renders (the
		// login round trip hits those) and is consumed at the first
		// authenticated one.
		var returnTo string
		if authenticated {
			returnTo = h.consumeReturnTarget(w, r)
		}

		req := router.Request{
			Authenticated: authenticated,
			View:          view,
			TestMode:      view == router.ViewTest,
			ShowResults:   view == router.ViewResults,
			Role:          authz.ResolveUser(u),
			ReturnTo:      returnTo,
		}

		dec := router.Route(req)
		h.render(w, r, view, dec)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, view string, dec router.Decision) {
	switch dec.Surface {
	case router.SurfaceLogin:
		target := "/login"
		if view != "" && view != router.ViewMain {
			target += "?return=" + url.QueryEscape(view)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	case router.SurfaceDenied:
		uierrors.RenderForbidden(w, r, "You don't have permission to view this page.", "/")
	case router.SurfaceAdmin:
		h.Surfaces.Admin(w, r)
	case router.SurfaceStats:
		h.Surfaces.Stats(w, r)
	case router.SurfaceProfile:
		h.Surfaces.Profile(w, r)
	case router.SurfaceSettings:
		h.Surfaces.Settings(w, r)
	case router.SurfaceTerms:
		h.Surfaces.Terms(w, r)
	case router.SurfacePrivacy:
		h.Surfaces.Privacy(w, r)
	case router.SurfaceTest:
		h.Surfaces.Test(w, r)
	case router.SurfaceResults:
		h.Surfaces.Results(w, r)
	default:
		h.Surfaces.Main(w, r)
	}
}

// RememberReturnTarget stores a post-login target in a signed cookie.
// The login feature calls this before bouncing to the identity provider.
func (h *Handler) RememberReturnTarget(w http.ResponseWriter, target string) {
	if target == "" || h.Codec == nil {
		return
	}
	encoded, err := h.Codec.Encode(returnCookie, target)
	if err != nil {
		h.Log.Warn("encode return target failed", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     returnCookie,
		Value:    encoded,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// consumeReturnTarget reads and clears the remembered target. It applies
// exactly once, at the first routed render after authentication.
func (h *Handler) consumeReturnTarget(w http.ResponseWriter, r *http.Request) string {
	if h.Codec == nil {
		return ""
	}
	c, err := r.Cookie(returnCookie)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     returnCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	var target string
	if err := h.Codec.Decode(returnCookie, c.Value, &target); err != nil {
		h.Log.Warn("decode return target failed", zap.Error(err))
		return ""
	}
	return target
}
