// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/vocabhub/internal/app/system/auth"
	"github.com/dalemusser/vocabhub/internal/app/system/identity"
	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleInfo is the resolved authorization state for one identity snapshot.
type RoleInfo struct {
	Role    string
	IsAdmin bool
}

// Resolve derives the authorization role from an identity snapshot.
//
// It is a pure function of the snapshot: no profile means guest, whatever
// the authentication flags say. Absence of data degrades to the least
// privileged role rather than failing; there are no error conditions.
func Resolve(st identity.State) RoleInfo {
	if st.Profile == nil {
		return RoleInfo{Role: models.RoleGuest}
	}
	role := strings.ToLower(strings.TrimSpace(st.Profile.Role))
	if role == "" {
		role = models.RoleGuest
	}
	return RoleInfo{Role: role, IsAdmin: role == models.RoleAdmin}
}

// ResolveUser derives RoleInfo from a session user already loaded into the
// request context. Same degradation rules as Resolve.
func ResolveUser(u *auth.SessionUser) RoleInfo {
	if u == nil {
		return RoleInfo{Role: models.RoleGuest}
	}
	role := strings.ToLower(strings.TrimSpace(u.Role))
	if role == "" {
		role = models.RoleGuest
	}
	return RoleInfo{Role: role, IsAdmin: role == models.RoleAdmin}
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "guest", "", NilObjectID, false; callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.RoleGuest, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return models.RoleGuest, "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// HasAnyRole reports whether the current request's user has any of the given
// roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
