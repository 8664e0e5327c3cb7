package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates holds the parsed page set. Each page is parsed together with
// the base layout so {{template "base"}} resolves per page.
type Templates struct {
	pages    map[string]*template.Template
	hostname string
}

// LoadTemplates parses every page against the base layout. hostname is
// injected into every render (shown in the footer).
func LoadTemplates(hostname string) *Templates {
	names := []string{
		"login.html",
		"signup.html",
		"home.html",
		"blog.html",
		"create_blog_post.html",
		"edit_blog_post.html",
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		pages[name] = template.Must(
			template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
	}

	return &Templates{pages: pages, hostname: hostname}
}

// Render writes the named page with the given data. Render errors after the
// status line has gone out can only be logged.
func (t *Templates) Render(w http.ResponseWriter, status int, page string, data map[string]any) {
	tmpl, ok := t.pages[page]
	if !ok {
		log.Printf("render: unknown page %q", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["Hostname"] = t.hostname

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}
