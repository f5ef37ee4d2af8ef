package cache

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func countingHandler(calls *atomic.Int64, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"render":%d,"uri":%q}`, n, r.URL.RequestURI())
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestCachedUntilCleared(t *testing.T) {
	var calls atomic.Int64
	c := New(16, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	first := get(t, h, "/")
	second := get(t, h, "/")
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs:\n%s\n%s", first.Body, second.Body)
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("cached header lost: %v", second.Header())
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}

	c.Clear()
	third := get(t, h, "/")
	if third.Body.String() == first.Body.String() {
		t.Fatal("body still cached after Clear")
	}
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func TestPagesAreCachedSeparately(t *testing.T) {
	var calls atomic.Int64
	c := New(16, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	get(t, h, "/")
	get(t, h, "/?page=2")
	get(t, h, "/?page=2")

	if calls.Load() != 2 || c.Len() != 2 {
		t.Fatalf("calls = %d, entries = %d; want 2, 2", calls.Load(), c.Len())
	}
}

func TestEntriesExpire(t *testing.T) {
	var calls atomic.Int64
	c := New(16, 20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := c.Middleware(countingHandler(&calls, http.StatusOK))

	get(t, h, "/")
	time.Sleep(60 * time.Millisecond)
	get(t, h, "/")

	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func TestOnlySuccessfulGetsAreCached(t *testing.T) {
	var calls atomic.Int64
	c := New(16, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	failing := c.Middleware(countingHandler(&calls, http.StatusInternalServerError))
	get(t, failing, "/broken")
	get(t, failing, "/broken")
	if calls.Load() != 2 {
		t.Fatalf("error response cached: handler ran %d times", calls.Load())
	}

	calls.Store(0)
	ok := c.Middleware(countingHandler(&calls, http.StatusOK))
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		ok.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	}
	if calls.Load() != 2 {
		t.Fatalf("POST response cached: handler ran %d times", calls.Load())
	}
}
