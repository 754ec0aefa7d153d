package router

import (
	"testing"

	"github.com/dalemusser/vocabhub/internal/app/system/authz"
)

func adminRole() authz.RoleInfo   { return authz.RoleInfo{Role: "admin", IsAdmin: true} }
func userRole() authz.RoleInfo    { return authz.RoleInfo{Role: "user"} }
func guestRole() authz.RoleInfo   { return authz.RoleInfo{Role: "guest"} }
func unknownRole() authz.RoleInfo { return authz.RoleInfo{Role: "moderator"} }

func TestRoutePrecedence(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Surface
	}{
		// Public views render for anyone, signed in or not.
		{"terms unauthenticated", Request{View: ViewTerms}, SurfaceTerms},
		{"privacy unauthenticated", Request{View: ViewPrivacy}, SurfacePrivacy},
		{"terms while authenticated", Request{Authenticated: true, View: ViewTerms, Role: userRole()}, SurfaceTerms},
		{"terms wins over test mode", Request{Authenticated: true, View: ViewTerms, TestMode: true, Role: userRole()}, SurfaceTerms},

		// Unauthenticated requests land on login.
		{"default unauthenticated", Request{}, SurfaceLogin},
		{"admin view unauthenticated", Request{View: ViewAdmin}, SurfaceLogin},
		{"test mode unauthenticated", Request{View: ViewTest, TestMode: true}, SurfaceLogin},

		// Test mode takes over before view dispatch.
		{"test mode", Request{Authenticated: true, TestMode: true, View: ViewTest, Role: userRole()}, SurfaceTest},
		{"test mode beats results", Request{Authenticated: true, TestMode: true, ShowResults: true, Role: userRole()}, SurfaceTest},
		{"results mode", Request{Authenticated: true, ShowResults: true, View: ViewResults, Role: userRole()}, SurfaceResults},

		// View dispatch.
		{"main", Request{Authenticated: true, View: ViewMain, Role: userRole()}, SurfaceMain},
		{"empty view is main", Request{Authenticated: true, Role: userRole()}, SurfaceMain},
		{"stats", Request{Authenticated: true, View: ViewStats, Role: userRole()}, SurfaceStats},
		{"profile", Request{Authenticated: true, View: ViewProfile, Role: userRole()}, SurfaceProfile},
		{"settings", Request{Authenticated: true, View: ViewSettings, Role: userRole()}, SurfaceSettings},
		{"admin as admin", Request{Authenticated: true, View: ViewAdmin, Role: adminRole()}, SurfaceAdmin},
		{"unknown view falls back to main", Request{Authenticated: true, View: "nonsense", Role: userRole()}, SurfaceMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.req)
			if got.Surface != tt.want {
				t.Errorf("Route(%+v).Surface = %v, want %v", tt.req, got.Surface, tt.want)
			}
		})
	}
}

func TestRouteAdminDeniedForEveryNonAdminRole(t *testing.T) {
	roles := []authz.RoleInfo{userRole(), guestRole(), unknownRole(), {}}
	for _, role := range roles {
		got := Route(Request{Authenticated: true, View: ViewAdmin, Role: role})
		if got.Surface != SurfaceDenied || !got.Denied {
			t.Errorf("role %q: got %+v, want denied", role.Role, got)
		}
	}
}

func TestRouteIsPure(t *testing.T) {
	req := Request{Authenticated: true, View: ViewAdmin, Role: adminRole()}
	first := Route(req)
	for i := 0; i < 100; i++ {
		if got := Route(req); got != first {
			t.Fatalf("Route returned %+v then %+v for identical input", first, got)
		}
	}
}

func TestRouteReturnTarget(t *testing.T) {
	tests := []struct {
		name     string
		view     string
		returnTo string
		role     authz.RoleInfo
		want     Surface
	}{
		{"substitutes on default landing", "", ViewStats, userRole(), SurfaceStats},
		{"substitutes on explicit main", ViewMain, ViewSettings, userRole(), SurfaceSettings},
		{"explicit view wins over remembered target", ViewProfile, ViewStats, userRole(), SurfaceProfile},
		{"remembered admin target still role-gated", "", ViewAdmin, userRole(), SurfaceDenied},
		{"remembered admin target for admin", "", ViewAdmin, adminRole(), SurfaceAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(Request{
				Authenticated: true,
				View:          tt.view,
				ReturnTo:      tt.returnTo,
				Role:          tt.role,
			})
			if got.Surface != tt.want {
				t.Errorf("Surface = %v, want %v", got.Surface, tt.want)
			}
		})
	}
}

// An admin whose session expires mid-flight is routed to login, and once
// signed in again with the admin role reaches the admin surface.
func TestRouteExpiredAdminSessionRoundTrip(t *testing.T) {
	expired := Route(Request{View: ViewAdmin})
	if expired.Surface != SurfaceLogin {
		t.Fatalf("expired session: Surface = %v, want SurfaceLogin", expired.Surface)
	}

	back := Route(Request{Authenticated: true, Role: adminRole(), ReturnTo: ViewAdmin})
	if back.Surface != SurfaceAdmin {
		t.Fatalf("after re-auth: Surface = %v, want SurfaceAdmin", back.Surface)
	}
}
