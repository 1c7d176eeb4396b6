// Copyright 2025 Galley Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/galleyio/galley/metrics"
)

// PageCache holds rendered site pages so repeated requests skip template
// execution and store queries. Entries are bounded by an LRU and expire after
// a TTL; template edits purge the cache through the refresh API.
type PageCache struct {
	pages *lru.Cache
	ttl   time.Duration
}

type cachedPage struct {
	status      int
	contentType string
	body        []byte
	storedAt    time.Time
}

// NewPageCache creates a cache holding at most size pages. A non-positive ttl
// disables expiry, leaving eviction to the LRU and explicit purges.
func NewPageCache(size int, ttl time.Duration) (*PageCache, error) {
	pages, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create page cache")
	}
	return &PageCache{pages: pages, ttl: ttl}, nil
}

// Purge drops every cached page.
func (c *PageCache) Purge() {
	c.pages.Purge()
}

// Middleware serves cached pages and records cacheable responses. Only
// successful GET responses with an HTML or XML content type are stored, so
// error pages and API responses always render fresh.
func (c *PageCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if page, ok := c.lookup(key); ok {
			metrics.PageCacheHits().Inc(1)
			w.Header().Set("Content-Type", page.contentType)
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(page.status)
			_, _ = w.Write(page.body)
			return
		}

		metrics.PageCacheMisses().Inc(1)
		w.Header().Set("X-Cache", "MISS")

		rec := &pageRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		contentType := rec.Header().Get("Content-Type")
		if rec.wrote && rec.status() == http.StatusOK && cacheableType(contentType) {
			c.pages.Add(key, &cachedPage{
				status:      rec.status(),
				contentType: contentType,
				body:        rec.buf.Bytes(),
				storedAt:    time.Now(),
			})
		}
	})
}

func (c *PageCache) lookup(key string) (*cachedPage, bool) {
	v, ok := c.pages.Get(key)
	if !ok {
		return nil, false
	}

	page := v.(*cachedPage)
	if c.ttl > 0 && time.Since(page.storedAt) > c.ttl {
		c.pages.Remove(key)
		return nil, false
	}
	return page, true
}

func cacheableType(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html") || strings.Contains(contentType, "xml")
}

// pageRecorder tees the response body so it can be cached while streaming to
// the client.
type pageRecorder struct {
	http.ResponseWriter

	buf        bytes.Buffer
	statusCode int
	wrote      bool
}

func (r *pageRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.statusCode = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.statusCode = http.StatusOK
		r.wrote = true
	}
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *pageRecorder) status() int {
	return r.statusCode
}
