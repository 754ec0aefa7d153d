// internal/app/features/admin/filter.go
package admin

import (
	"strings"

	"github.com/dalemusser/vocabhub/internal/domain/models"
)

// FilterUsers returns the order-preserving subsequence of all whose email,
// display name, or id contains the term, case-insensitively. An absent
// display name simply cannot match on that field; the record still matches
// through email or id. An empty term returns all unchanged.
//
// Pure and synchronous: safe to re-evaluate on every keystroke.
func FilterUsers(all []models.User, term string) []models.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return all
	}

	out := make([]models.User, 0, len(all))
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Email), term) ||
			(u.DisplayName != "" && strings.Contains(strings.ToLower(u.DisplayName), term)) ||
			strings.Contains(strings.ToLower(u.ID.Hex()), term) {
			out = append(out, u)
		}
	}
	return out
}
