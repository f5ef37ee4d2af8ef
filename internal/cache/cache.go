package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// page is a rendered response as it was first written.
type page struct {
	status int
	header http.Header
	body   []byte
}

// PageCache keeps rendered GET responses for a short time. Entries are keyed
// by request URI, so each page of a feed is cached on its own.
type PageCache struct {
	pages *expirable.LRU[string, *page]
	log   *slog.Logger
}

func New(size int, ttl time.Duration, log *slog.Logger) *PageCache {
	return &PageCache{
		pages: expirable.NewLRU[string, *page](size, nil, ttl),
		log:   log,
	}
}

// Clear drops every cached page. The next request renders fresh content.
func (c *PageCache) Clear() {
	c.pages.Purge()
	c.log.Info("Page cache cleared")
}

func (c *PageCache) Len() int {
	return c.pages.Len()
}

// Middleware serves cached copies of successful GET responses and stores
// new ones. Other methods and non-200 responses pass straight through.
func (c *PageCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if cached, ok := c.pages.Get(key); ok {
			writePage(w, cached)
			return
		}

		recorder := &recorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.status == http.StatusOK {
			c.pages.Add(key, &page{
				status: recorder.status,
				header: w.Header().Clone(),
				body:   bytes.Clone(recorder.body.Bytes()),
			})
		}
	})
}

func writePage(w http.ResponseWriter, p *page) {
	for name, values := range p.header {
		w.Header()[name] = values
	}
	w.WriteHeader(p.status)
	_, _ = w.Write(p.body)
}

// recorder copies the body while it is written to the client.
type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
