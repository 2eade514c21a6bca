package webserver

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Zetic/zpt/imagestore"
	"github.com/go-chi/chi/v5"
)

// Handler serves the store's output folder so generated images can be
// linked from embeds instead of re-uploaded.
func Handler(store *imagestore.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/images/{name}", func(w http.ResponseWriter, req *http.Request) {
		// Base strips any path traversal out of the name.
		name := filepath.Base(chi.URLParam(req, "name"))
		path := filepath.Join(store.OutputDir(), name)

		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, req)
			return
		}

		http.ServeFile(w, req, path)
	})

	return r
}

// Serve blocks; run it in a goroutine.
func Serve(bind string, store *imagestore.Store) error {
	log.Println("Image host listening on", bind)
	return http.ListenAndServe(bind, Handler(store))
}
