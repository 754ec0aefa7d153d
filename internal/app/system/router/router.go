// Package router selects which surface to render for a bootstrapped
// session. Route is a pure function: it fetches nothing, mutates nothing,
// and identical inputs always produce the identical decision. The HTTP
// layer is responsible for translating requests into Request values and
// decisions back into rendered pages.
package router

import "github.com/dalemusser/vocabhub/internal/app/system/authz"

// View names supplied by navigation. Opaque tokens; unrecognized values
// fall through to the default view.
const (
	ViewMain     = "main"
	ViewStats    = "stats"
	ViewAdmin    = "admin"
	ViewProfile  = "profile"
	ViewSettings = "settings"
	ViewTerms    = "terms"
	ViewPrivacy  = "privacy"
	ViewTest     = "testMode"
	ViewResults  = "resultsMode"
)

// Surface is the render target a decision selects.
type Surface int

const (
	SurfaceMain Surface = iota
	SurfaceStats
	SurfaceAdmin
	SurfaceProfile
	SurfaceSettings
	SurfaceTerms
	SurfacePrivacy
	SurfaceTest
	SurfaceResults
	// SurfaceLogin is the authentication entry surface.
	SurfaceLogin
	// SurfaceDenied is the access-denied page: visible to the user, no
	// data fetched, no side effects.
	SurfaceDenied
)

func (s Surface) String() string {
	switch s {
	case SurfaceMain:
		return "main"
	case SurfaceStats:
		return "stats"
	case SurfaceAdmin:
		return "admin"
	case SurfaceProfile:
		return "profile"
	case SurfaceSettings:
		return "settings"
	case SurfaceTerms:
		return "terms"
	case SurfacePrivacy:
		return "privacy"
	case SurfaceTest:
		return "test"
	case SurfaceResults:
		return "results"
	case SurfaceLogin:
		return "login"
	case SurfaceDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Request carries everything Route needs. It is built fresh per evaluation
// and never mutated afterwards.
type Request struct {
	Authenticated bool
	View          string
	TestMode      bool
	ShowResults   bool
	Role          authz.RoleInfo
	// ReturnTo is a remembered post-login target. It replaces the default
	// landing view once, right after authentication.
	ReturnTo string
}

// Decision is the selected render target.
type Decision struct {
	Surface Surface
	Denied  bool
}

// Route evaluates the precedence ladder. Each rung short-circuits the rest:
//
//  1. Public views (terms, privacy) render unconditionally. They are the
//     only surfaces reachable while unauthenticated.
//  2. Unauthenticated requests get the login surface.
//  3. Test mode renders the test-taking surface.
//  4. Results mode renders the results surface.
//  5. Everything else dispatches on the requested view, with the admin
//     view gated on the resolved role.
func Route(req Request) Decision {
	switch req.View {
	case ViewTerms:
		return Decision{Surface: SurfaceTerms}
	case ViewPrivacy:
		return Decision{Surface: SurfacePrivacy}
	}

	if !req.Authenticated {
		return Decision{Surface: SurfaceLogin}
	}

	if req.TestMode {
		return Decision{Surface: SurfaceTest}
	}
	if req.ShowResults {
		return Decision{Surface: SurfaceResults}
	}

	view := req.View
	if (view == "" || view == ViewMain) && req.ReturnTo != "" {
		view = req.ReturnTo
	}

	switch view {
	case ViewAdmin:
		if !req.Role.IsAdmin {
			return Decision{Surface: SurfaceDenied, Denied: true}
		}
		return Decision{Surface: SurfaceAdmin}
	case ViewStats:
		return Decision{Surface: SurfaceStats}
	case ViewProfile:
		return Decision{Surface: SurfaceProfile}
	case ViewSettings:
		return Decision{Surface: SurfaceSettings}
	default:
		return Decision{Surface: SurfaceMain}
	}
}
