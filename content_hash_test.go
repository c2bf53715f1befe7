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

import "testing"

func TestContentHashIgnoresMarkupDifferences(t *testing.T) {
	a := ContentHash([]byte(`<html><body><p>Same   text here</p></body></html>`))
	b := ContentHash([]byte(`<html><body><div>Same text
here</div><script>x()</script></body></html>`))

	if a != b {
		t.Errorf("Expected equal hashes for equal visible text: %s vs %s", a, b)
	}
}

func TestContentHashDiffersForDifferentText(t *testing.T) {
	a := ContentHash([]byte(`<html><body>alpha</body></html>`))
	b := ContentHash([]byte(`<html><body>beta</body></html>`))
	if a == b {
		t.Error("Expected different hashes for different text")
	}
}

func TestContentHashStable(t *testing.T) {
	body := []byte(`<html><body>fixed</body></html>`)
	if ContentHash(body) != ContentHash(body) {
		t.Error("Expected hash to be deterministic")
	}
	if len(ContentHash(body)) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", ContentHash(body))
	}
}

func TestDupTracker(t *testing.T) {
	d := newDupTracker()

	if first := d.observe("h1", "https://example.com/a"); first != "" {
		t.Errorf("First observation should return empty, got %q", first)
	}
	if first := d.observe("h1", "https://example.com/b"); first != "https://example.com/a" {
		t.Errorf("Expected first URL for repeated hash, got %q", first)
	}
	if first := d.observe("h2", "https://example.com/c"); first != "" {
		t.Errorf("New hash should return empty, got %q", first)
	}
}
