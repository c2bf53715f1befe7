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

package webwalk

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"
)

// MockResponse is a canned HTTP response served by MockTransport.
type MockResponse struct {
	// StatusCode defaults to 200.
	StatusCode int
	// Body is the response body.
	Body string
	// Headers are merged into the response. Content-Type defaults to
	// text/html when unset.
	Headers http.Header
	// Delay simulates network latency before the response is returned.
	Delay time.Duration
	// Err simulates a transport-level failure; when set, nothing else
	// is used.
	Err error
}

// MockTransport implements http.RoundTripper so crawls can run against
// a fully scripted site with no network and no test server. URLs with
// no registered response get a 404.
type MockTransport struct {
	mu        sync.RWMutex
	responses map[string]*MockResponse
	// requests records every URL fetched, in dispatch order.
	requests []string
}

// NewMockTransport returns an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*MockResponse)}
}

// Register installs a response for an exact URL.
func (m *MockTransport) Register(url string, resp *MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	m.responses[url] = resp
}

// RegisterHTML installs a 200 text/html response for a URL.
func (m *MockTransport) RegisterHTML(url, html string) {
	h := make(http.Header)
	h.Set("Content-Type", "text/html; charset=utf-8")
	m.Register(url, &MockResponse{StatusCode: http.StatusOK, Body: html, Headers: h})
}

// RegisterError installs a simulated network failure for a URL.
func (m *MockTransport) RegisterError(url string, err error) {
	m.Register(url, &MockResponse{Err: err})
}

// Requests returns the URLs fetched so far, in dispatch order.
func (m *MockTransport) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mu.Lock()
	m.requests = append(m.requests, url)
	resp := m.responses[url]
	m.mu.Unlock()

	if resp == nil {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(bytes.NewBufferString("not found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	header := make(http.Header)
	for k, v := range resp.Headers {
		header[k] = append([]string(nil), v...)
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "text/html; charset=utf-8")
	}
	return &http.Response{
		StatusCode:    resp.StatusCode,
		Body:          io.NopCloser(bytes.NewBufferString(resp.Body)),
		Header:        header,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(resp.Body)),
	}, nil
}
