package text

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/text/language"

	"github.com/gogpu/ggweb/httpclient"
)

func fontServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/fonts/mono.ttf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(gomono.TTF)
	})
	mux.HandleFunc("/fonts/garbage.ttf", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWebLoadFontFromURL(t *testing.T) {
	srv := fontServer(t)
	ws, err := NewWebFontSystem(language.English, httpclient.NewFetchClient())
	require.NoError(t, err)

	require.True(t, SupportsURLFonts(ws))
	require.NoError(t, LoadFontFromURL(context.Background(), ws, srv.URL+"/fonts/mono.ttf"))

	assert.Equal(t, 2, ws.Len())
	assert.Contains(t, ws.AllFontNames(), "Go Mono")
	_, err = ws.FontID("Go Mono")
	assert.NoError(t, err)
}

func TestWebLoadFontStatusError(t *testing.T) {
	srv := fontServer(t)
	ws, err := NewWebFontSystem(language.English, httpclient.NewFetchClient())
	require.NoError(t, err)

	err = ws.LoadFontFromURL(context.Background(), srv.URL+"/fonts/missing.ttf")
	var se *httpclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.ErrorIs(t, err, httpclient.ErrStatus)
	assert.Equal(t, 1, ws.Len())
}

func TestWebLoadFontBadData(t *testing.T) {
	srv := fontServer(t)
	ws, err := NewWebFontSystem(language.English, httpclient.NewFetchClient())
	require.NoError(t, err)

	err = ws.LoadFontFromURL(context.Background(), srv.URL+"/fonts/garbage.ttf")
	assert.Error(t, err)
	assert.Equal(t, 1, ws.Len())
}

func TestWebWithoutClient(t *testing.T) {
	ws, err := NewWebFontSystem(language.English, nil)
	require.NoError(t, err)

	err = ws.LoadFontFromURL(context.Background(), "https://example.com/f.ttf")
	assert.ErrorIs(t, err, httpclient.ErrNoClient)
}

func TestNativeHasNoURLCapability(t *testing.T) {
	fs, _ := newTestFonts(t)

	assert.False(t, SupportsURLFonts(fs))
	err := LoadFontFromURL(context.Background(), fs, "https://example.com/f.ttf")
	assert.ErrorIs(t, err, ErrCapabilityUnsupported)
}
