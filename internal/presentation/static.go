package presentation

import (
	"embed"
	"github.com/go-chi/chi/v5"
	"io/fs"
	"net/http"
)

//go:embed web/*
var webFS embed.FS

// MountStatic serves the tracking page at / and its assets under /assets/.
func MountStatic(r chi.Router) {
	sub, _ := fs.Sub(webFS, "web")

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, sub, "index.html")
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))
}
