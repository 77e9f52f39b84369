package endpoints

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates
var templateFiles embed.FS

var pageTemplates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	pages := []string{"index", "login", "dashboard", "credential", "add", "update", "search"}
	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		parsed[page] = template.Must(template.ParseFS(
			templateFiles,
			"templates/layout.html",
			"templates/"+page+".html",
		))
	}
	return parsed
}

// renderPage executes a page template into a buffer first, so a render
// failure still produces a clean 500 instead of a half-written body.
func renderPage(w http.ResponseWriter, code int, page string, data interface{}) {
	var buf bytes.Buffer
	if err := pageTemplates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}
