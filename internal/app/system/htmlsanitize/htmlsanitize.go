// Package htmlsanitize centralizes HTML sanitization policies so every
// feature cleans untrusted markup the same way.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ugcPolicy allows basic formatting markup suitable for user-generated
// content such as word notes.
var ugcPolicy = bluemonday.UGCPolicy()

// strictPolicy strips all markup. Used for single-line values such as
// display names, where any tag is an error.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize cleans user-generated HTML, keeping safe formatting tags and
// removing scripts, event handlers, and other active content.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all markup and collapses the result to a trimmed
// plain-text string.
func PlainText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
