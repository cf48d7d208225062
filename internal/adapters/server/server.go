package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/core/ports"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// reloadScript connects to the hub and reloads the page when told to.
const reloadScript = `<script>(function(){` +
	`var s=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` +
	domain.ReloadEndpoint + `");` +
	`s.onmessage=function(e){if(e.data==="` + domain.ReloadPayload + `")location.reload();};` +
	`})();</script>`

// Server serves the output tree of a site with live reload.
type Server struct {
	site   *domain.Site
	hub    *Hub
	logger ports.Logger
}

// New creates a Server for site broadcasting through hub.
func New(site *domain.Site, hub *Hub, logger ports.Logger) *Server {
	return &Server{site: site, hub: hub, logger: logger}
}

// Handler routes the websocket endpoint, the public directory, and built pages.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(domain.ReloadEndpoint, s.hub)
	if s.site.PublicDir != "" {
		mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir(s.site.PublicDir))))
	}
	mux.HandleFunc("/", s.servePage)
	return mux
}

// Serve serves on ln until ctx is done, then shuts down gracefully and disconnects
// live-reload clients.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info(fmt.Sprintf("serving %s at http://%s", s.site.OutputDir, ln.Addr()))

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(domain.ErrServerFailed, err.Error())
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(domain.ErrServerFailed, err.Error())
	}
	return nil
}

// servePage resolves /x to x, x.html, then x/index.html inside the output tree.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	file, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !strings.EqualFold(filepath.Ext(file), s.site.OutputExt) {
		http.ServeFile(w, r, file)
		return
	}

	//nolint:gosec // file is resolved inside the output directory
	data, err := os.ReadFile(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(injectReload(data))
}

func (s *Server) resolve(urlPath string) (string, bool) {
	clean := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	base := filepath.Join(s.site.OutputDir, filepath.FromSlash(clean))

	candidates := []string{
		base,
		base + s.site.OutputExt,
		filepath.Join(base, "index"+s.site.OutputExt),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// injectReload inserts the live-reload script before the last </body>, or appends it.
func injectReload(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(page, reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:idx]...)
	out = append(out, reloadScript...)
	return append(out, page[idx:]...)
}
