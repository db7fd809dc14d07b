// Package devserver serves a wasm build of a ggweb program and tells
// connected pages to reload when the build changes.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/config"
)

// ReloadPath is the WebSocket endpoint pages connect to.
const ReloadPath = "/_ggweb/reload"

// ReloadScriptPath serves a script that connects to ReloadPath and
// reloads the page on every message.
const ReloadScriptPath = "/_ggweb/reload.js"

const reloadScript = `(function () {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + "` + ReloadPath + `");
  ws.onmessage = function () { location.reload(); };
})();
`

// debounce coalesces the burst of events a single build produces.
const debounce = 100 * time.Millisecond

func init() {
	_ = mime.AddExtensionType(".wasm", "application/wasm")
}

// Server is the development HTTP server.
type Server struct {
	config   config.Serve
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// New creates a server for cfg.
func New(cfg config.Serve) *Server {
	return &Server{
		config: cfg,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP handler: static files from the configured
// directory plus, with live reload enabled, the reload endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.config.Dir)))
	if s.config.LiveReload {
		mux.HandleFunc(ReloadPath, s.serveReload)
		mux.HandleFunc(ReloadScriptPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
			_, _ = w.Write([]byte(reloadScript))
		})
	}
	return mux
}

func (s *Server) serveReload(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ggweb.Logger().Debug("devserver: upgrade failed", "err", err)
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	ggweb.Logger().Debug("devserver: page connected", "remote", r.RemoteAddr)

	// Pages never send; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Reload tells every connected page to reload. It returns the number of
// pages notified.
func (s *Server) Reload() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			ggweb.Logger().Debug("devserver: notify failed", "err", err)
			delete(s.conns, conn)
			_ = conn.Close()
			continue
		}
		n++
	}
	return n
}

func isBuildOutput(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wasm", ".html", ".js":
		return true
	}
	return false
}

// Watch reloads pages whenever a wasm, html or js file in the served
// directory is written or replaced. It returns when ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("devserver: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.config.Dir); err != nil {
		return fmt.Errorf("devserver: watch %s: %w", s.config.Dir, err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !isBuildOutput(ev.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			n := s.Reload()
			ggweb.Logger().Info("devserver: build changed", "pages", n)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ggweb.Logger().Warn("devserver: watch error", "err", err)
		}
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 2)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	if s.config.LiveReload {
		go func() {
			if err := s.Watch(ctx); err != nil {
				errc <- err
			}
		}()
	}
	ggweb.Logger().Info("devserver: serving", "addr", s.config.Addr, "dir", s.config.Dir, "live_reload", s.config.LiveReload)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		shutdown(srv)
		return err
	case <-ctx.Done():
	}
	s.closeClients()
	return shutdown(srv)
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("devserver: shutdown: %w", err)
	}
	return nil
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		delete(s.conns, conn)
	}
}
