package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	s := New(Options{
		SubscriptionPath: filepath.Join(dir, "sub.txt"),
		LinksPagePath:    filepath.Join(dir, "links.html"),
		CacheTTL:         50 * time.Millisecond,
	})
	return s, dir
}

func TestServeSubscription(t *testing.T) {
	s, dir := testServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub.txt"), []byte("dGVzdA=="), 0o644))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dGVzdA==", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestServeLinksPage(t *testing.T) {
	s, dir := testServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "links.html"), []byte("<html></html>"), 0o644))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/links", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestServeMissingArtifact(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeCachesUntilTTL(t *testing.T) {
	s, dir := testServer(t)
	path := filepath.Join(dir, "sub.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	router := s.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub", nil))
	require.Equal(t, "first", rec.Body.String())

	// Within the TTL the cached copy is served.
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub", nil))
	assert.Equal(t, "first", rec.Body.String())

	// After expiry the re-provisioned artifact is picked up.
	time.Sleep(120 * time.Millisecond)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sub", nil))
	assert.Equal(t, "second", rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
