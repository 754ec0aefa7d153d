// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/app/system/identity"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/login"
	}

	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    backURL,
	}

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it defaults to the home page.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", data)
}

// RenderServerError shows a friendly "something went wrong" page for
// handler-level failures.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		Title:      "Something went wrong",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "error_server", data)
}

// RenderBootstrapError shows the full-screen startup failure page. The only
// recovery action offered is a full reload; no partial state is trusted.
func RenderBootstrapError(w http.ResponseWriter, r *http.Request, errInfo *identity.ErrorInfo) {
	msg := "The application failed to start. Please reload the page."
	if errInfo != nil && errInfo.Message != "" {
		msg = errInfo.Message
	}

	data := pageData{
		Title:   "Something went wrong",
		Message: msg,
		BackURL: r.URL.RequestURI(),
		Reload:  true,
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	templates.Render(w, r, "error_bootstrap", data)
}
