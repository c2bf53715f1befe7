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

// frontierEntry is a URL awaiting fetch, paired with its link distance
// from the seed.
type frontierEntry struct {
	url   string
	depth int
}

// frontier is the FIFO queue of pending fetches. FIFO order is what
// makes the traversal breadth-first: every depth-d entry is dequeued
// before any depth-(d+1) entry, because children are always appended
// after their parents.
type frontier struct {
	entries []frontierEntry
	head    int
}

func (f *frontier) push(url string, depth int) {
	f.entries = append(f.entries, frontierEntry{url: url, depth: depth})
}

func (f *frontier) pop() (frontierEntry, bool) {
	if f.head >= len(f.entries) {
		return frontierEntry{}, false
	}
	e := f.entries[f.head]
	f.entries[f.head] = frontierEntry{}
	f.head++
	if f.head == len(f.entries) {
		f.entries = f.entries[:0]
		f.head = 0
	}
	return e, true
}

func (f *frontier) peek() (frontierEntry, bool) {
	if f.head >= len(f.entries) {
		return frontierEntry{}, false
	}
	return f.entries[f.head], true
}

func (f *frontier) len() int {
	return len(f.entries) - f.head
}

// pending returns the queued entries in dequeue order without
// consuming them.
func (f *frontier) pending() []frontierEntry {
	return f.entries[f.head:]
}
