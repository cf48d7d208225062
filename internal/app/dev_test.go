package app_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xo/internal/adapters/watcher"
	"go.trai.ch/xo/internal/app"
	"go.trai.ch/xo/internal/core/domain"
)

const waitFor = 5 * time.Second

// devSession runs Dev in the background and returns the server address.
func devSession(t *testing.T, f *fixture, opts app.DevOptions) (string, func() error) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	errc := make(chan error, 1)
	go func() { errc <- f.app.Dev(ctx, opts) }()

	var addr string
	select {
	case addr = <-f.addrs:
	case err := <-errc:
		cancel()
		t.Fatalf("dev exited early: %v", err)
	case <-time.After(waitFor):
		cancel()
		t.Fatal("dev server did not start")
	}

	stop := sync.OnceValue(func() error {
		cancel()
		select {
		case err := <-errc:
			return err
		case <-time.After(waitFor):
			return errors.New("dev did not shut down")
		}
	})
	t.Cleanup(func() { _ = stop() })
	return addr, stop
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func connect(t *testing.T, f *fixture, addr string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.DialContext(t.Context(), "ws://"+addr+domain.ReloadEndpoint, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, waitFor, 10*time.Millisecond)
	return conn
}

func expectReload(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, domain.ReloadPayload, string(msg))
}

// inject delivers one event once the watcher has registered the event's directory.
func inject(t *testing.T, f *fixture, path string, op watcher.Op) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.backend.Inject(path, op, false)
	}, waitFor, 10*time.Millisecond)
}

func TestApp_Dev_RebuildsAndReloads(t *testing.T) {
	for _, synchronous := range []bool{false, true} {
		name := "queued"
		if synchronous {
			name = "synchronous"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.init(t)

			addr, stop := devSession(t, f, app.DevOptions{Sync: synchronous})

			status, body := get(t, "http://"+addr+"/")
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "Hello World!")
			assert.Contains(t, body, domain.ReloadEndpoint)

			conn := connect(t, f, addr)

			page := f.write(t, "content/index.md", "---\ntitle: Welcome\n---\n# Changed\n")
			inject(t, f, page, watcher.OpModified)
			expectReload(t, conn)

			_, body = get(t, "http://"+addr+"/index.html")
			assert.Contains(t, body, "Changed")

			require.NoError(t, stop())
			assert.FileExists(t, f.path(".xo/cache.jsonl"))
		})
	}
}

func TestApp_Dev_PartialChangeRebuildsDependents(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	addr, stop := devSession(t, f, app.DevOptions{})
	conn := connect(t, f, addr)

	partial := f.write(t, "content/_partials/header.md", "*Now with partials.*\n")
	inject(t, f, partial, watcher.OpModified)
	expectReload(t, conn)

	assert.Contains(t, f.read(t, "dist/index.html"), "<em>Now with partials.</em>")
	require.NoError(t, stop())
}

func TestApp_Dev_InitialBuildFailureKeepsServing(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	f.write(t, "content/broken.md", "---\nlayout: missing\n---\n")

	addr, stop := devSession(t, f, app.DevOptions{})
	status, _ := get(t, "http://"+addr+"/")
	assert.Equal(t, http.StatusOK, status)
	status, _ = get(t, "http://"+addr+"/broken")
	assert.Equal(t, http.StatusNotFound, status)
	require.NoError(t, stop())
}

func TestApp_Dev_InvalidOverride(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	err := f.app.Dev(t.Context(), app.DevOptions{Backend: "kqueue"})
	require.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestApp_Dev_ListenFailure(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	f.app.WithListenFunc(func(context.Context, string) (net.Listener, error) {
		return nil, errors.New("address already in use")
	})

	err := f.app.Dev(t.Context(), app.DevOptions{})
	require.ErrorIs(t, err, domain.ErrServerFailed)
}
