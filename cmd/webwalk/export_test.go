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

package main

import (
	"strings"
	"testing"
)

func TestURLToFilename(t *testing.T) {
	tests := []string{
		"https://example.com/some/deep/page",
		"http://example.com/page?query=1&other=2",
		"https://example.com/",
	}
	for _, u := range tests {
		name := urlToFilename(u)
		if strings.ContainsAny(name, "/\\:?&") {
			t.Errorf("urlToFilename(%q) = %q contains unsafe characters", u, name)
		}
		if !strings.HasSuffix(name, ".txt") {
			t.Errorf("urlToFilename(%q) = %q missing .txt suffix", u, name)
		}
		if name == ".txt" {
			t.Errorf("urlToFilename(%q) produced an empty base name", u)
		}
	}
}

func TestURLToFilenameDistinctPages(t *testing.T) {
	a := urlToFilename("https://example.com/alpha")
	b := urlToFilename("https://example.com/beta")
	if a == b {
		t.Errorf("Different pages mapped to the same filename %q", a)
	}
}
