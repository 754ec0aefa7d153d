// internal/app/features/shell/templates.go
package shell

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "shell",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
