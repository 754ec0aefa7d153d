package shell_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/vocabhub/internal/app/features/shell"
	"github.com/dalemusser/vocabhub/internal/app/system/gate"
	"github.com/dalemusser/vocabhub/internal/app/system/identity"
	"github.com/dalemusser/vocabhub/internal/app/system/router"
	"github.com/dalemusser/vocabhub/internal/testutil"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// renderLog records which surface the shell dispatched to.
type renderLog struct {
	names []string
}

func (l *renderLog) mark(name string) shell.RenderFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l.names = append(l.names, name)
		io.WriteString(w, name)
	}
}

func newTestShell(t *testing.T) (*shell.Handler, *gate.Gate, *renderLog) {
	t.Helper()
	g := gate.New(gate.Options{Logger: zap.NewNop()})
	log := &renderLog{}
	codec := securecookie.New([]byte("test-hash-key-32-bytes-long-...."), nil)
	h := shell.NewHandler(g, shell.Surfaces{
		Main:     log.mark("main"),
		Stats:    log.mark("stats"),
		Admin:    log.mark("admin"),
		Profile:  log.mark("profile"),
		Settings: log.mark("settings"),
		Terms:    log.mark("terms"),
		Privacy:  log.mark("privacy"),
		Test:     log.mark("test"),
		Results:  log.mark("results"),
	}, codec, zap.NewNop())
	return h, g, log
}

func ready(g *gate.Gate) {
	g.Apply(identity.State{Ready: true, Seq: 1})
}

// serveQuiet calls a handler whose fallback path renders a template.
// The template engine is not booted in tests, so that render may panic;
// status and headers are written before it.
func serveQuiet(fn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() { _ = recover() }()
	fn(w, r)
}

func TestServeViewHoldsSurfacesUntilReady(t *testing.T) {
	h, g, log := newTestShell(t)

	req := testutil.SignedInRequest("GET", "/", testutil.RegularUser())
	rec := httptest.NewRecorder()
	serveQuiet(h.ServeView(""), rec, req)

	if len(log.names) != 0 {
		t.Fatalf("surfaces rendered while initializing: %v", log.names)
	}

	ready(g)
	rec = httptest.NewRecorder()
	h.ServeView("")(rec, testutil.SignedInRequest("GET", "/", testutil.RegularUser()))

	if len(log.names) != 1 || log.names[0] != "main" {
		t.Errorf("rendered = %v, want [main]", log.names)
	}
	if rec.Body.String() != "main" {
		t.Errorf("body = %q, want main view", rec.Body.String())
	}
}

func TestServeViewBootstrapFailure(t *testing.T) {
	h, g, log := newTestShell(t)
	g.Apply(identity.State{
		HasError: true,
		Err:      &identity.ErrorInfo{Code: "auth/unavailable", Message: "provider down"},
		Seq:      1,
	})

	rec := httptest.NewRecorder()
	serveQuiet(h.ServeView(""), rec, testutil.SignedInRequest("GET", "/", testutil.RegularUser()))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if len(log.names) != 0 {
		t.Errorf("surfaces rendered after bootstrap failure: %v", log.names)
	}
}

func TestServeViewRedirectsAnonymousToLogin(t *testing.T) {
	h, g, _ := newTestShell(t)
	ready(g)

	rec := httptest.NewRecorder()
	h.ServeView(router.ViewStats)(rec, httptest.NewRequest("GET", "/view/stats", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=stats" {
		t.Errorf("Location = %q, want /login?return=stats", loc)
	}
}

func TestServeViewPublicPagesSkipAuth(t *testing.T) {
	h, g, log := newTestShell(t)
	ready(g)

	rec := httptest.NewRecorder()
	h.ServeView(router.ViewTerms)(rec, httptest.NewRequest("GET", "/view/terms", nil))

	if len(log.names) != 1 || log.names[0] != "terms" {
		t.Errorf("rendered = %v, want [terms]", log.names)
	}
}

func TestServeViewAdminRoleCheck(t *testing.T) {
	h, g, log := newTestShell(t)
	ready(g)

	rec := httptest.NewRecorder()
	serveQuiet(h.ServeView(router.ViewAdmin), rec,
		testutil.SignedInRequest("GET", "/view/admin", testutil.RegularUser()))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if len(log.names) != 0 {
		t.Fatalf("surfaces rendered for denied request: %v", log.names)
	}

	rec = httptest.NewRecorder()
	h.ServeView(router.ViewAdmin)(rec,
		testutil.SignedInRequest("GET", "/view/admin", testutil.AdminUser()))

	if len(log.names) != 1 || log.names[0] != "admin" {
		t.Errorf("rendered = %v, want [admin]", log.names)
	}
}

func returnCookieFrom(t *testing.T, h *shell.Handler, target string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	h.RememberReturnTarget(rec, target)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "vocabhub-return" {
			return c
		}
	}
	t.Fatal("return cookie was not set")
	return nil
}

func TestReturnTargetSurvivesUnauthenticatedRender(t *testing.T) {
	h, g, log := newTestShell(t)
	ready(g)

	cookie := returnCookieFrom(t, h, router.ViewStats)

	// An unauthenticated page hit mid sign-in must not discard the target.
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeView("")(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want login redirect", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "vocabhub-return" {
			t.Fatal("return cookie consumed on an unauthenticated render")
		}
	}

	// The first authenticated render consumes it and lands on the target.
	req = testutil.SignedInRequest("GET", "/", testutil.RegularUser())
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeView("")(rec, req)

	if len(log.names) != 1 || log.names[0] != "stats" {
		t.Errorf("rendered = %v, want [stats]", log.names)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "vocabhub-return" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("return cookie not cleared after consumption")
	}
}
