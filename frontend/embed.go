package frontend

import (
	"embed"
	"html/template"
)

// FS embeds the page templates
//
//go:embed templates/*.html
var FS embed.FS

// PageTemplate parses the chart page template
func PageTemplate() (*template.Template, error) {
	return template.ParseFS(FS, "templates/index.html")
}
