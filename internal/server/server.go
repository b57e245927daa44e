// Package server hosts the generated site for local preview: a plain
// file server over the output directory plus a websocket endpoint pushing
// live-reload signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Server serves one output directory on one port for the process
// lifetime. The output directory is shared with the rebuild loop without
// locking; a request served mid-rebuild may observe a partially written
// page, which is accepted for a dev server.
type Server struct {
	dir  string
	port int
	hub  *Hub
}

func New(dir string, port int, hub *Hub) *Server {
	return &Server{dir: dir, port: port, hub: hub}
}

// Run blocks serving HTTP until the listener fails or ctx is cancelled.
// A bind failure is returned to the caller and is fatal at startup.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/live-reload", s.hub.ServeWS)
	mux.Handle("/", noCache(http.FileServer(http.Dir(s.dir))))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	slog.Info("serving book", "url", fmt.Sprintf("http://localhost:%d", s.port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// noCache keeps browsers from holding on to stale pages between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
