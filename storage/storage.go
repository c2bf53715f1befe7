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

// Package storage holds the crawler's visited-set backends. The crawler
// creates a fresh store per run, so implementations never see keys from
// more than one crawl.
package storage

import "sync"

// VisitStorage tracks which URL keys a crawl has already processed.
// Keys are normalized URL strings.
type VisitStorage interface {
	// Init prepares the storage for use.
	Init() error
	// VisitIfNew atomically checks whether a key was visited and marks
	// it when it was not. It returns true when the key was already
	// visited. The atomicity is what guarantees no URL is fetched
	// twice even when fetches are dispatched concurrently.
	VisitIfNew(key string) (bool, error)
	// IsVisited reports whether a key has been marked.
	IsVisited(key string) (bool, error)
	// Len returns the number of marked keys.
	Len() int
}

// InMemory is the default VisitStorage: a mutex-guarded set that lives
// and dies with one crawl invocation.
type InMemory struct {
	visited map[string]struct{}
	mu      sync.RWMutex
}

// NewInMemory returns an initialized in-memory visited set.
func NewInMemory() *InMemory {
	s := &InMemory{}
	_ = s.Init()
	return s
}

// Init implements VisitStorage.
func (s *InMemory) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited == nil {
		s.visited = make(map[string]struct{})
	}
	return nil
}

// VisitIfNew implements VisitStorage.
func (s *InMemory) VisitIfNew(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[key]; ok {
		return true, nil
	}
	s.visited[key] = struct{}{}
	return false, nil
}

// IsVisited implements VisitStorage.
func (s *InMemory) IsVisited(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.visited[key]
	return ok, nil
}

// Len implements VisitStorage.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visited)
}
