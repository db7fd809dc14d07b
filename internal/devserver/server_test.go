package devserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggweb/config"
)

func newTestServer(t *testing.T, live bool) (*Server, *httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>ggweb</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("\x00asm"), 0o644))

	s := New(config.Serve{Dir: dir, LiveReload: live})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, dir
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Clients() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestServesStaticFiles(t *testing.T) {
	_, ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/main.wasm")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/wasm", resp.Header.Get("Content-Type"))

	resp2, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, _ := io.ReadAll(resp2.Body)
	assert.Contains(t, string(body), "ggweb")
}

func TestReloadDisabled(t *testing.T) {
	_, ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + ReloadScriptPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReloadScript(t *testing.T) {
	_, ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + ReloadScriptPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), ReloadPath)
}

func TestReloadNotifiesPages(t *testing.T) {
	s, ts, _ := newTestServer(t, true)
	conn := dial(t, ts)
	waitClients(t, s, 1)

	assert.Equal(t, 1, s.Reload())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestClosedPageIsForgotten(t *testing.T) {
	s, ts, _ := newTestServer(t, true)
	conn := dial(t, ts)
	waitClients(t, s, 1)

	require.NoError(t, conn.Close())
	waitClients(t, s, 0)
	assert.Equal(t, 0, s.Reload())
}

func TestWatchReloadsOnBuild(t *testing.T) {
	s, ts, dir := newTestServer(t, true)
	conn := dial(t, ts)
	waitClients(t, s, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.wasm"), []byte("\x00asm\x01"), 0o644))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))
}

func TestIsBuildOutput(t *testing.T) {
	assert.True(t, isBuildOutput("web/main.wasm"))
	assert.True(t, isBuildOutput("INDEX.HTML"))
	assert.False(t, isBuildOutput("notes.txt"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := New(config.Serve{Addr: "127.0.0.1:0", Dir: t.TempDir()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
