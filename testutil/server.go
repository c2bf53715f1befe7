// Copyright 2025 The webwalk Authors
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

// Package testutil provides shared test utilities for webwalk tests.
// This includes HTTP test servers and common test data.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Test data shared across tests
var (
	IndexHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Index</title>
<meta name="description" content="A small site for crawl tests">
<meta name="keywords" content="crawl, test">
</head>
<body>
<h1>Welcome</h1>
<p>Some readable text on the index page.</p>
<a href="/about">About us</a>
<a href="/contact">Contact</a>
<img src="/logo.png" alt="Site logo">
</body>
</html>
`)

	SitemapXML = []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%s/about</loc></url>
  <url><loc>%s/contact</loc></url>
</urlset>
`)
)

// NewTestServer starts an httptest server with a small fixed site:
// an index page linking to /about and /contact, each of which links
// back to /, plus a sitemap, a binary asset, and a /missing 404.
func NewTestServer() *httptest.Server {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(IndexHTML)
	})

	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>About</title></head><body><p>About page text.</p><a href="/">Home</a></body></html>`)
	})

	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Contact</title></head><body><p>Contact page text.</p><a href="/">Home</a></body></html>`)
	})

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		body := strings.ReplaceAll(string(SitemapXML), "%s", srv.URL)
		w.Write([]byte(body))
	})

	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	return srv
}

// CountingHandler wraps a handler and records how many times each
// path was requested.
type CountingHandler struct {
	mu     sync.Mutex
	counts map[string]int
	next   http.Handler
}

// NewCountingHandler wraps next with per-path request counting.
func NewCountingHandler(next http.Handler) *CountingHandler {
	return &CountingHandler{counts: make(map[string]int), next: next}
}

// ServeHTTP implements http.Handler.
func (c *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.counts[r.URL.Path]++
	c.mu.Unlock()
	c.next.ServeHTTP(w, r)
}

// Count returns the number of requests seen for path.
func (c *CountingHandler) Count(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[path]
}
