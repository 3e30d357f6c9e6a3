package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/config"
)

func keyFor(method, target string) string {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/orders")
	return cacheKey("cache", c)
}

func TestCacheKeyStableAndQuerySensitive(t *testing.T) {
	a := keyFor(http.MethodGet, "/v1/orders?search=kim")
	b := keyFor(http.MethodGet, "/v1/orders?search=kim")
	if a != b {
		t.Error("same request produced different keys")
	}
	if a == keyFor(http.MethodGet, "/v1/orders?search=lee") {
		t.Error("different queries share a key")
	}
	if a == keyFor(http.MethodPost, "/v1/orders?search=kim") {
		t.Error("different methods share a key")
	}
}

// A nil Redis client must disable the middleware without touching the
// response.
func TestResponseCacheDisabledWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	mw := ResponseCache(cfg, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})(c)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCaptureWriterRespectsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 4}
	if _, err := cw.Write([]byte("abcdef")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cw.buf.String() != "abcd" {
		t.Errorf("captured %q, want abcd", cw.buf.String())
	}
	if rec.Body.String() != "abcdef" {
		t.Errorf("client saw %q, want full body", rec.Body.String())
	}
}
