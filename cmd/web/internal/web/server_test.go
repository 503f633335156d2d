package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/cropframe/cmd/web/auth"
	"thirdcoast.systems/cropframe/cmd/web/handlers/crop_api"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/pkg/cropsession"
)

func newTestServer(t *testing.T, opts Options) (*Webserver, *crophub.Hub) {
	t.Helper()
	hub, err := crophub.NewHub(crophub.Config{
		Options:   cropsession.Options{AspectRatios: []string{"16:9", "9:16"}},
		IdleAfter: time.Millisecond,
	})
	require.NoError(t, err)
	s, err := NewWebserver(hub, auth.NewSessionManager("test-secret"), opts)
	require.NoError(t, err)
	return s, hub
}

func serve(s *Webserver, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestWebserver_Routes(t *testing.T) {
	s, hub := newTestServer(t, Options{Page: crop_api.Page{Title: "Crop"}})

	rec := serve(s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec = serve(s, http.MethodGet, "/static/dist/crop.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("ETag"))

	rec = serve(s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, hub.Len())
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	require.Equal(t, http.StatusBadRequest, serve(s, http.MethodPost, "/crop/nope/cancel").Code)
}

func TestWebserver_ServesMedia(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	s, _ := newTestServer(t, Options{
		Page:      crop_api.Page{MediaURL: "/media"},
		MediaPath: path,
	})

	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusPartialContent, rec.Code)
	require.Equal(t, "2345", rec.Body.String())
}

func TestWebserver_NoMediaRouteWithoutPath(t *testing.T) {
	s, _ := newTestServer(t, Options{Page: crop_api.Page{MediaURL: "/media"}})
	require.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/media").Code)
}

func TestWebserver_RunJanitor(t *testing.T) {
	s, hub := newTestServer(t, Options{})
	_, err := hub.Create(time.Now().Add(-time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.RunJanitor(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
