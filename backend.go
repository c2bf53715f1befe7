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
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Response is the outcome of a single fetch.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// httpBackend owns the HTTP client for one crawl invocation. It is
// created at the start of a Run and discarded with it; nothing is
// shared between concurrent runs.
type httpBackend struct {
	Client        *http.Client
	userAgent     string
	maxBodySize   int
	detectCharset bool
}

func newHTTPBackend(cfg *Config) *httpBackend {
	return &httpBackend{
		Client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:     cfg.UserAgent,
		maxBodySize:   cfg.MaxBodySize,
		detectCharset: cfg.DetectCharset,
	}
}

// withTransport overrides the client transport. Tests use this to
// substitute a MockTransport.
func (h *httpBackend) withTransport(rt http.RoundTripper) {
	h.Client.Transport = rt
}

// Get performs a single GET. Redirect handling is whatever the client
// does by default; there is no retry. Any status other than 200 is an
// error so callers have a single failure path per page.
func (h *httpBackend) Get(ctx context.Context, u string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "*/*")

	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var bodyReader io.Reader = res.Body
	if h.maxBodySize > 0 {
		bodyReader = io.LimitReader(bodyReader, int64(h.maxBodySize))
	}
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return &Response{StatusCode: res.StatusCode, Body: body, Headers: res.Header},
			fmt.Errorf("fetch %s: %s", u, http.StatusText(res.StatusCode))
	}

	if h.detectCharset {
		body = toUTF8(body, res.Header.Get("Content-Type"))
	}

	return &Response{StatusCode: res.StatusCode, Body: body, Headers: res.Header}, nil
}

// toUTF8 re-encodes a response body to UTF-8 when the declared or
// sniffed character set says it is something else. Bodies that cannot
// be decoded are returned unchanged; a bad encoding is a field-level
// degradation, never a page failure.
func toUTF8(body []byte, contentType string) []byte {
	if len(body) == 0 {
		return body
	}
	name := charsetFromContentType(contentType)
	if name == "" {
		detector := chardet.NewTextDetector()
		if r, err := detector.DetectBest(body); err == nil {
			name = r.Charset
		}
	}
	if name == "" || strings.EqualFold(name, "utf-8") {
		return body
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return body
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return body
	}
	return decoded
}

func charsetFromContentType(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(strings.ToLower(part), "charset="); ok {
			return strings.Trim(v, `"'`)
		}
	}
	return ""
}

// isHTML reports whether a response should go through HTML extraction.
// An empty Content-Type falls back to sniffing, like browsers do.
func (r *Response) isHTML() bool {
	contentType := r.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(r.Body)
	}
	mediatype, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediatype)) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
