package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return sm
}

// staticFetcher resolves every session to one fixed user, or to nil when
// the user is gone.
type staticFetcher struct {
	user *SessionUser
}

func (f staticFetcher) FetchUser(ctx context.Context, userID string) *SessionUser {
	if f.user != nil && f.user.ID == userID {
		return f.user
	}
	return nil
}

func signInCookies(t *testing.T, sm *SessionManager, u *SessionUser) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := sm.SignIn(rec, req, u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rec.Result().Cookies()
}

func TestSignInRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	u := &SessionUser{ID: "abc123", Name: "Maria", Email: "maria@test.com", Role: "user"}
	cookies := signInCookies(t, sm, u)
	if len(cookies) == 0 {
		t.Fatal("sign-in set no cookie")
	}

	var got *SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user in context after sign-in")
	}
	if got.Email != u.Email || got.Role != u.Role {
		t.Errorf("context user = %+v, want %+v", got, u)
	}
}

// With a fetcher installed, the session only carries the id; role and
// status come fresh from the store on every request.
func TestLoadSessionUserRefreshesThroughFetcher(t *testing.T) {
	sm := newTestManager(t)
	cookies := signInCookies(t, sm, &SessionUser{ID: "abc123", Role: "user"})
	sm.SetUserFetcher(staticFetcher{user: &SessionUser{ID: "abc123", Email: "maria@test.com", Role: "admin"}})

	var got *SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Role != "admin" {
		t.Fatalf("context user = %+v, want refreshed admin", got)
	}
}

// A session whose user the fetcher no longer knows behaves as signed out.
func TestLoadSessionUserDropsDeletedUser(t *testing.T) {
	sm := newTestManager(t)
	cookies := signInCookies(t, sm, &SessionUser{ID: "gone"})
	sm.SetUserFetcher(staticFetcher{})

	var found bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("deleted user still present in context")
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestManager(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("html redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/view/stats", nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		sm.RequireSignedIn(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fview%2Fstats" {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("api gets 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/view/stats", nil)
		rec := httptest.NewRecorder()
		sm.RequireSignedIn(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("signed-in passes through", func(t *testing.T) {
		req := WithTestUser(httptest.NewRequest(http.MethodGet, "/view/stats", nil), &SessionUser{ID: "x"})
		rec := httptest.NewRecorder()
		sm.RequireSignedIn(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	sm := newTestManager(t)
	guard := sm.RequireRole("admin")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name string
		user *SessionUser
		want int
	}{
		{"admin allowed", &SessionUser{ID: "a", Role: "admin"}, http.StatusOK},
		{"case-insensitive role", &SessionUser{ID: "a", Role: "Admin"}, http.StatusOK},
		{"regular user forbidden", &SessionUser{ID: "b", Role: "user"}, http.StatusForbidden},
		{"anonymous unauthorized", nil, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.user != nil {
				req = WithTestUser(req, tc.user)
			}
			rec := httptest.NewRecorder()
			guard(next).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
