package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/vocabhub/internal/app/features/errors"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"github.com/dalemusser/vocabhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, dir *fakeDirectory) *Handler {
	t.Helper()
	h := NewHandler(newTestController(dir), uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	if err := h.Ctrl.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return h
}

// serveQuiet calls a handler that may end in a template render. The
// template engine is not booted in tests, so rendering may panic; the
// status code and headers are written before that point.
func serveQuiet(fn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() { _ = recover() }()
	fn(w, r)
}

func wantFlashRedirect(t *testing.T, rec *httptest.ResponseRecorder, fragment string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/admin") {
		t.Fatalf("Location = %q, want /admin redirect", loc)
	}
	if !strings.Contains(loc, fragment) {
		t.Errorf("Location = %q, want flash containing %q", loc, fragment)
	}
}

func TestHandleToggleRedirectsWithFlash(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	h := newTestHandler(t, dir)

	req := testutil.SignedInRequest("POST", "/admin/"+target.ID.Hex()+"/toggle?active=false", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleToggle(rec, req)

	wantFlashRedirect(t, rec, "Status+updated")
	if dir.setActiveN != 1 {
		t.Errorf("SetActive calls = %d, want 1", dir.setActiveN)
	}
}

func TestHandleToggleUnknownTarget(t *testing.T) {
	dir := &fakeDirectory{users: []models.User{someUser()}}
	h := newTestHandler(t, dir)

	req := testutil.SignedInRequest("POST", "/admin/not-an-id/toggle", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "not-an-id")
	rec := httptest.NewRecorder()

	h.HandleToggle(rec, req)

	wantFlashRedirect(t, rec, "Unknown+user")
	if dir.setActiveN != 0 {
		t.Errorf("SetActive calls = %d, want 0", dir.setActiveN)
	}
}

func TestHandlersRejectAnonymous(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	h := newTestHandler(t, dir)

	req := httptest.NewRequest("POST", "/admin/"+target.ID.Hex()+"/toggle", nil)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()

	serveQuiet(h.HandleToggle, rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if dir.setActiveN != 0 {
		t.Error("anonymous request reached the directory")
	}
}

func TestServeExportDownload(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	h := newTestHandler(t, dir)

	actor := testutil.AdminUser()
	req := testutil.SignedInRequest("GET", "/admin/"+target.ID.Hex()+"/export", actor)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "user-data-"+target.Email) {
		t.Errorf("Content-Disposition = %q, want user-data-%s prefix", cd, target.Email)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if _, ok := doc["profile"]; !ok {
		t.Error("document missing profile")
	}
	var by string
	if err := json.Unmarshal(doc["exportedBy"], &by); err != nil || by != actor.ID {
		t.Errorf("exportedBy = %q, want %q", by, actor.ID)
	}
}

func TestServeExportNonAdminForbidden(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	h := newTestHandler(t, dir)

	req := testutil.SignedInRequest("GET", "/admin/"+target.ID.Hex()+"/export", testutil.RegularUser())
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()

	serveQuiet(h.ServeExport, rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleImportRejectsMissingProfile(t *testing.T) {
	dir := &fakeDirectory{}
	h := newTestHandler(t, dir)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "import.json")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write([]byte(`{"words": []}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	mw.Close()

	req := testutil.SignedInRequestBody("POST", "/admin/import", testutil.AdminUser(),
		mw.FormDataContentType(), &buf)
	rec := httptest.NewRecorder()

	h.HandleImport(rec, req)

	wantFlashRedirect(t, rec, "Import+rejected")
	if len(dir.users) != 0 {
		t.Error("rejected import mutated the directory")
	}
}

func TestDeleteConfirmFlowOverHTTP(t *testing.T) {
	target := someUser()
	dir := &fakeDirectory{users: []models.User{target}}
	h := newTestHandler(t, dir)

	p := h.Ctrl.RequestDelete(target)

	req := testutil.SignedInRequest("POST", "/admin/delete/confirm?confirmation_id="+p.ID, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleDeleteConfirm(rec, req)

	wantFlashRedirect(t, rec, "User+deleted")
	if dir.deleteN != 1 {
		t.Errorf("DeleteByID calls = %d, want 1", dir.deleteN)
	}

	// A second confirm with the same id finds nothing pending.
	rec = httptest.NewRecorder()
	h.HandleDeleteConfirm(rec, testutil.SignedInRequest("POST",
		"/admin/delete/confirm?confirmation_id="+p.ID, testutil.AdminUser()))
	wantFlashRedirect(t, rec, "confirmation+has+expired")
}

func TestHandleDeleteCancelUnknownID(t *testing.T) {
	h := newTestHandler(t, &fakeDirectory{})

	req := testutil.SignedInRequest("POST", "/admin/delete/cancel?confirmation_id=bogus", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleDeleteCancel(rec, req)

	wantFlashRedirect(t, rec, "Nothing+to+cancel")
}
