// Package page renders the single-page directory UI.
package page

import (
	"embed"
	"html/template"
)

// IndexTemplate is the name the handlers render.
const IndexTemplate = "index.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// LoadTemplates parses the embedded page templates for gin's HTML renderer.
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}
