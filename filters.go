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
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// skipExtensions lists path suffixes that identify binary resources.
// Candidate links ending in one of these are never enqueued.
var skipExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico",
	".css", ".js", ".mjs",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".mp3", ".mp4", ".avi", ".webm", ".wav", ".ogg",
	".zip", ".rar", ".gz", ".tar", ".7z",
	".exe", ".dmg", ".apk",
}

// normalizeSeed prefixes a missing scheme with https:// and parses the
// result. A seed that still fails to parse aborts the whole invocation.
func normalizeSeed(raw string) (*whatwgUrl.Url, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSeed)
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	u, err := urlParser.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSeed, raw, err)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidSeed, raw)
	}
	return u, nil
}

// normalizeURL reparses a URL to collapse trivial variants such as
// "http://example.com" vs "http://example.com/". Visited-set keys and
// frontier entries always use this form.
func normalizeURL(raw string) string {
	u, err := urlParser.Parse(raw)
	if err != nil {
		return raw
	}
	// Href(true) drops the fragment: it never reaches the server, so
	// two URLs differing only in fragment are the same page.
	return u.Href(true)
}

// netloc returns the host[:port] of a URL in lowercase, the quantity the
// same-domain rule compares.
func netloc(u *whatwgUrl.Url) string {
	return strings.ToLower(u.Host())
}

// frontierFilter decides which discovered links are eligible for the
// frontier. It is fixed for the lifetime of one run.
type frontierFilter struct {
	seedNetloc string
	excludes   []glob.Glob
}

// eligible reports whether a candidate absolute URL may be enqueued.
// The rule set, in order: scheme must be http or https, the network
// location must equal the seed's exactly, the path must not name a
// binary resource, and no exclude pattern may match.
func (f *frontierFilter) eligible(raw string) bool {
	u, err := urlParser.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Protocol() {
	case "http:", "https:":
	default:
		return false
	}
	if netloc(u) != f.seedNetloc {
		return false
	}
	path := strings.ToLower(u.Pathname())
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	for _, g := range f.excludes {
		if g.Match(raw) {
			return false
		}
	}
	return true
}
