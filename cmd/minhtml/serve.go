package main

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tdewolff/minhtml"
)

// maxBodySize limits the documents posted to /minify.
const maxBodySize = 32 << 20

// Server minifies posted documents and serves the files of a directory with HTML responses
// minified.
type Server struct {
	router chi.Router
	cfg    *minhtml.Cfg
}

// NewServer returns a server for the directory root.
func NewServer(c *minhtml.Cfg, root string) *Server {
	s := &Server{cfg: c}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Post("/minify", s.handleMinify)
	r.Handle("/*", minhtml.Middleware(c, http.FileServer(http.Dir(root))))
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMinify(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "cannot read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(minhtml.Minify(src, s.cfg)); err != nil {
		Warning.Println(err)
	}
}
