package admin

import (
	"strings"
	"testing"

	"github.com/dalemusser/vocabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterUsers(t *testing.T) {
	anna := models.User{ID: primitive.NewObjectID(), Email: "anna@test.com", DisplayName: "Anna Schmidt"}
	bruno := models.User{ID: primitive.NewObjectID(), Email: "bruno@example.org", DisplayName: "Bruno"}
	noName := models.User{ID: primitive.NewObjectID(), Email: "quiet@test.com"}
	all := []models.User{anna, bruno, noName}

	emails := func(us []models.User) []string {
		out := make([]string, len(us))
		for i, u := range us {
			out[i] = u.Email
		}
		return out
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term returns all", "", []string{"anna@test.com", "bruno@example.org", "quiet@test.com"}},
		{"whitespace-only term returns all", "   ", []string{"anna@test.com", "bruno@example.org", "quiet@test.com"}},
		{"email substring", "test.com", []string{"anna@test.com", "quiet@test.com"}},
		{"display name substring", "schmidt", []string{"anna@test.com"}},
		{"case-insensitive", "BRUNO", []string{"bruno@example.org"}},
		{"mixed-case name vs lower term", "anna s", []string{"anna@test.com"}},
		{"no match", "zzz", []string{}},
		{"missing display name still matches on email", "quiet", []string{"quiet@test.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := emails(FilterUsers(all, tc.term))
			if len(got) != len(tc.want) {
				t.Fatalf("FilterUsers(%q) = %v, want %v", tc.term, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("FilterUsers(%q) = %v, want %v", tc.term, got, tc.want)
				}
			}
		})
	}
}

func TestFilterUsersMatchesOnID(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Email: "x@test.com"}
	hex := u.ID.Hex()

	got := FilterUsers([]models.User{u}, hex[8:16])
	if len(got) != 1 {
		t.Fatalf("filtering by an id fragment matched %d users, want 1", len(got))
	}
	// Hex digits are lowercase; the search must not care.
	got = FilterUsers([]models.User{u}, strings.ToUpper(hex[:6]))
	if len(got) != 1 {
		t.Fatalf("filtering by uppercased id prefix matched %d users, want 1", len(got))
	}
}

// The filter keeps the source ordering, whatever it is.
func TestFilterUsersPreservesOrder(t *testing.T) {
	var all []models.User
	for _, e := range []string{"c@test.com", "a@test.com", "b@test.com"} {
		all = append(all, models.User{ID: primitive.NewObjectID(), Email: e})
	}
	got := FilterUsers(all, "@test.com")
	for i := range all {
		if got[i].Email != all[i].Email {
			t.Fatalf("order changed: got %q at %d, want %q", got[i].Email, i, all[i].Email)
		}
	}
}
