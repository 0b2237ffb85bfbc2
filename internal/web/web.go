// Package web holds the HTML pages served by the upload UI.
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"since": func(t time.Time) string {
		return time.Since(t).Round(time.Second).String()
	},
}

// Templates parses the embedded pages; each is addressed by its file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
