// internal/app/features/testmode/templates.go
package testmode

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "testmode",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
