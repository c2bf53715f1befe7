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
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// ContentHash hashes the normalized visible text of an HTML body.
// Markup, scripts and whitespace variations do not affect the hash, so
// two URLs serving the same content collide. Used to populate
// PageRecord.DuplicateOf.
func ContentHash(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Sprintf("%016x", xxhash.Sum64(body))
	}
	doc.Find("script, style, noscript").Remove()
	text := normalizeWhitespace(doc.Text())
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// dupTracker remembers the first URL seen for each content hash within
// a single run.
type dupTracker struct {
	firstByHash map[string]string
}

func newDupTracker() *dupTracker {
	return &dupTracker{firstByHash: make(map[string]string)}
}

// observe records the hash for a URL and returns the first URL that
// produced the same hash, or "" when the content is new.
func (d *dupTracker) observe(hash, url string) string {
	if first, ok := d.firstByHash[hash]; ok {
		return first
	}
	d.firstByHash[hash] = url
	return ""
}
