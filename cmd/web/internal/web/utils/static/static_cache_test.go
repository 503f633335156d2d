package static

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestNewStaticCache_BuildsEntries(t *testing.T) {
	cache, err := NewStaticCache()
	require.NoError(t, err)
	require.NotNil(t, cache)
	require.NotEmpty(t, cache.entries)

	for _, path := range []string{"dist/crop.css", "dist/crop.js"} {
		ci, ok := cache.entries[path]
		require.True(t, ok, "expected %s to be embedded", path)
		require.True(t, regexp.MustCompile(`^\"[0-9a-f]{64}\"$`).MatchString(ci.ETag))
		require.True(t, ci.Size > 0)
		require.False(t, ci.LastModified.IsZero())
	}
}

func TestServeStaticFile(t *testing.T) {
	modTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache, err := newStaticCache(fstest.MapFS{
		"dist/crop.js":  {Data: []byte("console.log(1)"), ModTime: modTime},
		"img/logo.png": {Data: []byte("png"), ModTime: modTime},
	})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/static/*", cache.ServeStaticFile("/static/"))

	get := func(path string, header ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for i := 0; i+1 < len(header); i += 2 {
			req.Header.Set(header[i], header[i+1])
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/static/dist/crop.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "console.log(1)", rec.Body.String())
	require.Equal(t, "no-cache, must-revalidate", rec.Header().Get(echo.HeaderCacheControl))
	require.Contains(t, rec.Header().Get(echo.HeaderContentType), "javascript")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	require.Equal(t, http.StatusNotModified, get("/static/dist/crop.js", "If-None-Match", etag).Code)
	require.Equal(t, http.StatusNotModified, get("/static/dist/crop.js", echo.HeaderIfModifiedSince, modTime.Add(time.Hour).Format(time.RFC1123)).Code)

	rec = get("/static/img/logo.png")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=31536000, stale-while-revalidate=86400", rec.Header().Get(echo.HeaderCacheControl))

	require.Equal(t, http.StatusNotFound, get("/static/dist/missing.js").Code)
}
