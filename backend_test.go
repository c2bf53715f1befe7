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
	"net/http"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestBackendSetsUserAgent(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", "<html></html>")

	cfg := DefaultConfig()
	cfg.UserAgent = "webwalk-test/9"
	b := newHTTPBackend(cfg)

	var gotUA string
	b.withTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		return mock.RoundTrip(req)
	}))

	if _, err := b.Get(context.Background(), "https://example.com/"); err != nil {
		t.Fatal(err)
	}
	if gotUA != "webwalk-test/9" {
		t.Errorf("Expected configured User-Agent, got %q", gotUA)
	}
}

func TestBackendNon200IsError(t *testing.T) {
	mock := NewMockTransport()
	mock.Register("https://example.com/gone", &MockResponse{StatusCode: 410, Body: "gone"})

	b := newHTTPBackend(DefaultConfig())
	b.withTransport(mock)

	res, err := b.Get(context.Background(), "https://example.com/gone")
	if err == nil {
		t.Fatal("Expected an error for a 410 response")
	}
	if res == nil || res.StatusCode != 410 {
		t.Errorf("Expected the response to accompany the error, got %+v", res)
	}
}

func TestBackendBodySizeCap(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/big", strings.Repeat("x", 1000))

	cfg := DefaultConfig()
	cfg.MaxBodySize = 100
	b := newHTTPBackend(cfg)
	b.withTransport(mock)

	res, err := b.Get(context.Background(), "https://example.com/big")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Body) != 100 {
		t.Errorf("Expected body capped at 100 bytes, got %d", len(res.Body))
	}
}

func TestBackendCharsetConversion(t *testing.T) {
	// "café" in ISO-8859-1: é is a single 0xE9 byte.
	latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("<html><body>café</body></html>"))
	if err != nil {
		t.Fatal(err)
	}

	mock := NewMockTransport()
	h := make(http.Header)
	h.Set("Content-Type", "text/html; charset=iso-8859-1")
	mock.Register("https://example.com/", &MockResponse{StatusCode: 200, Body: string(latin1), Headers: h})

	cfg := DefaultConfig()
	cfg.DetectCharset = true
	b := newHTTPBackend(cfg)
	b.withTransport(mock)

	res, err := b.Get(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Body), "café") {
		t.Errorf("Expected UTF-8 converted body, got %q", string(res.Body))
	}
}

func TestResponseIsHTML(t *testing.T) {
	htmlHeader := make(http.Header)
	htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
	jsonHeader := make(http.Header)
	jsonHeader.Set("Content-Type", "application/json")

	tests := []struct {
		name string
		res  Response
		want bool
	}{
		{"declared html", Response{Headers: htmlHeader, Body: []byte("<html></html>")}, true},
		{"declared json", Response{Headers: jsonHeader, Body: []byte("{}")}, false},
		{"sniffed html", Response{Headers: make(http.Header), Body: []byte("<!DOCTYPE html><html></html>")}, true},
		{"sniffed binary", Response{Headers: make(http.Header), Body: []byte{0x89, 'P', 'N', 'G'}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.isHTML(); got != tt.want {
				t.Errorf("isHTML() = %t, want %t", got, tt.want)
			}
		})
	}
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
