package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/virtual-closet/internal/config"
)

func cacheTestSetup(t *testing.T) (echo.MiddlewareFunc, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          30 * time.Second,
		Prefix:       "closet",
		MaxBodyBytes: 1 << 20,
	}
	return NewRedisCache(cfg, rdb), rdb
}

func cacheRequest(t *testing.T, mw echo.MiddlewareFunc, method, target string, uid uint64, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetPath(target)
	c.Set("user_id", uid)
	if err := mw(h)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

func TestCacheHitAndMiss(t *testing.T) {
	mw, _ := cacheTestSetup(t)
	body := `["blue-tee"]`
	h := func(c echo.Context) error { return c.String(http.StatusOK, body) }

	rec := cacheRequest(t, mw, http.MethodGet, "/items", 7, h)
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first request X-Cache = %q", rec.Header().Get("X-Cache"))
	}

	rec = cacheRequest(t, mw, http.MethodGet, "/items", 7, h)
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second request X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if rec.Body.String() != body {
		t.Fatalf("cached body = %q", rec.Body.String())
	}
}

// A mutation must retire every cached entry of its owner: the next GET
// sees the post-mutation state, not the cached body, within the TTL.
func TestCacheInvalidatedByMutation(t *testing.T) {
	mw, _ := cacheTestSetup(t)
	body := `["blue-tee"]`
	get := func(c echo.Context) error { return c.String(http.StatusOK, body) }

	rec := cacheRequest(t, mw, http.MethodGet, "/items", 7, get)
	if rec.Body.String() != `["blue-tee"]` {
		t.Fatalf("initial body = %q", rec.Body.String())
	}

	body = `["blue-tee","red-scarf"]`
	rec = cacheRequest(t, mw, http.MethodPost, "/items", 7, func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("mutation status = %d", rec.Code)
	}

	rec = cacheRequest(t, mw, http.MethodGet, "/items", 7, get)
	if rec.Body.String() != `["blue-tee","red-scarf"]` {
		t.Fatalf("GET after mutation returned %q, want the fresh body", rec.Body.String())
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("GET after mutation X-Cache = %q, want MISS", rec.Header().Get("X-Cache"))
	}
}

// A failed mutation changes nothing, so the cache stays valid.
func TestCacheSurvivesFailedMutation(t *testing.T) {
	mw, _ := cacheTestSetup(t)
	get := func(c echo.Context) error { return c.String(http.StatusOK, "v1") }

	cacheRequest(t, mw, http.MethodGet, "/items", 7, get)
	cacheRequest(t, mw, http.MethodPost, "/items", 7, func(c echo.Context) error {
		return c.String(http.StatusUnprocessableEntity, "bad")
	})

	rec := cacheRequest(t, mw, http.MethodGet, "/items", 7, get)
	if rec.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("X-Cache = %q, want HIT after rejected mutation", rec.Header().Get("X-Cache"))
	}
}

func TestCacheIsolatesUsers(t *testing.T) {
	mw, _ := cacheTestSetup(t)

	cacheRequest(t, mw, http.MethodGet, "/items", 7, func(c echo.Context) error {
		return c.String(http.StatusOK, "user-7-items")
	})
	rec := cacheRequest(t, mw, http.MethodGet, "/items", 8, func(c echo.Context) error {
		return c.String(http.StatusOK, "user-8-items")
	})
	if rec.Body.String() != "user-8-items" {
		t.Fatalf("user 8 received %q", rec.Body.String())
	}

	// User 7's mutation must not evict user 8's entry.
	cacheRequest(t, mw, http.MethodPost, "/items", 7, func(c echo.Context) error {
		return c.String(http.StatusCreated, "created")
	})
	rec = cacheRequest(t, mw, http.MethodGet, "/items", 8, func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})
	if rec.Header().Get("X-Cache") != "HIT" || rec.Body.String() != "user-8-items" {
		t.Fatalf("user 8 after foreign mutation: X-Cache=%q body=%q",
			rec.Header().Get("X-Cache"), rec.Body.String())
	}
}
