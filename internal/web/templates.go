package web

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"
	"runtime"
)

type Templates struct {
	all *template.Template
}

func MustParseTemplates() *Templates {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("unable to resolve template path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	glob := filepath.Join(root, "templates", "*.html")

	return &Templates{all: template.Must(template.ParseGlob(glob))}
}

func (t *Templates) RenderPage(w http.ResponseWriter, status int, data ViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var content bytes.Buffer
	if err := t.all.ExecuteTemplate(&content, data.ContentTemplate, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pageData := data
	pageData.ContentHTML = template.HTML(content.String())
	w.WriteHeader(status)
	if err := t.all.ExecuteTemplate(w, "base", pageData); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
