// Package views renders the server-side gallery pages.
package views

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("views").Funcs(template.FuncMap{
	"jsonify": jsonify,
}).ParseFS(templateFS, "templates/*.html"))

// GalleryPageData feeds the gallery management template. PublicPath is the
// URL prefix the router serves stored image files under.
type GalleryPageData struct {
	Title      string
	Flash      string
	PublicPath string
	Galleries  any
}

// RenderGalleryPage writes the management page. Galleries and PublicPath are
// serialized into the page as script payloads consumed by the client script.
func RenderGalleryPage(w io.Writer, data GalleryPageData) error {
	if data.Title == "" {
		data.Title = "Gallery Management"
	}
	if data.PublicPath == "" {
		data.PublicPath = "/storage"
	}
	return pages.ExecuteTemplate(w, "gallery.html", data)
}

// jsonify emits data as a script-safe JSON literal.
func jsonify(v any) (template.JS, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(raw), nil
}
