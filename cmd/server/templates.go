package main

import (
	"html/template"
	"path/filepath"
)

// LoadTemplates parses the page templates
func LoadTemplates(dir string) *template.Template {
	tmpl := template.New("")
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		tmpl = template.Must(tmpl.ParseFiles(f))
	}
	return tmpl
}
